package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Payment kinds as stored on a transaction. PaymentDetail points at a
// configured payment-method entry; the kind stays valid even when that
// entry is later removed from the config.
const (
	PayCredit  PaymentKind = "credit"
	PayCheck   PaymentKind = "check"
	PayAccount PaymentKind = "account"
	PayCash    PaymentKind = "cash"
	PayPay     PaymentKind = "pay"
	PayOther   PaymentKind = "other"
)

type (
	TransactionType string

	PaymentKind string

	// Date is a calendar day. It marshals as "YYYY-MM-DD", matching the
	// stored wire format.
	Date struct {
		time.Time
	}

	// Money is an amount in the smallest currency unit.
	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. Its Date decides which monthly
	// bucket it is persisted in, never the month a caller happens to be
	// viewing.
	Transaction struct {
		ID            string          `json:"id"`
		Date          Date            `json:"date"`
		User          string          `json:"user"`
		Type          TransactionType `json:"type"`
		MainCategory  string          `json:"mainCategory"`
		SubCategory   string          `json:"subCategory"`
		Merchant      string          `json:"merchant,omitempty"`
		Detail        string          `json:"detail,omitempty"`
		Amount        Money           `json:"amount"`
		PaymentMethod PaymentKind     `json:"paymentMethod"`
		PaymentDetail string          `json:"paymentDetail"`
		IsFixed       bool            `json:"isFixed"`
		FixedMasterID *string         `json:"fixedMasterId"`
		CreatedAt     time.Time       `json:"createdAt"`
		UpdatedAt     time.Time       `json:"updatedAt"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyUser     = errors.New("empty user")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty main category")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the "YYYY-MM-DD" wire format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Year returns the calendar year.
func (d Date) Year() int { return d.Time.Year() }

// Month returns the calendar month, 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

// SameMonth reports whether both dates fall in the same monthly bucket.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%d", m.Cents)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var cents int64
	if _, err := fmt.Sscanf(string(data), "%d", &cents); err != nil {
		return fmt.Errorf("amount %q: %w", string(data), ErrInvalidAmount)
	}
	m.Cents = cents
	return nil
}

// Validate checks the structural rules enforced at the API boundary.
// The stores themselves accept whatever they are given; see the ledger
// package.
func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.User) == "" {
		return ErrEmptyUser
	}
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.MainCategory) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(t.Merchant) > 200 {
		return errors.New("merchant too long (max 200 characters)")
	}
	if len(t.Detail) > 500 {
		return errors.New("detail too long (max 500 characters)")
	}
	return nil
}
