package core

import (
	"sort"
	"strings"
)

type (
	// PaymentMethod is one selectable payment entry, e.g. a specific card.
	PaymentMethod struct {
		ID    string      `json:"id"`
		Label string      `json:"label"`
		Type  PaymentKind `json:"type"`
		Note  string      `json:"note,omitempty"`
	}

	// PaymentMethods groups entries the way the settings screen presents
	// them. IDs are expected to be unique across all groups; the stores do
	// not enforce this.
	PaymentMethods struct {
		CreditCards []PaymentMethod `json:"creditCards"`
		CheckCards  []PaymentMethod `json:"checkCards"`
		Accounts    []PaymentMethod `json:"accounts"`
		Etc         []PaymentMethod `json:"etc"`
	}

	// Account is a bank account tracked for balances. Inactive accounts are
	// hidden from selection but keep their historical data.
	Account struct {
		No             int    `json:"no"`
		AccountNo      string `json:"accountNo"`
		Name           string `json:"name"`
		Bank           string `json:"bank"`
		Note           string `json:"note"`
		InitialBalance int64  `json:"initialBalance"`
		Active         bool   `json:"active"`
	}

	// Taxonomy maps a main category to its ordered sub-categories.
	Taxonomy map[string][]string

	// Config is the mutable reference data for the ledger. Saving always
	// replaces the whole object; there is no partial update.
	Config struct {
		PaymentMethods    PaymentMethods `json:"paymentMethods"`
		Accounts          []Account      `json:"accounts"`
		IncomeCategories  Taxonomy       `json:"incomeCategories"`
		ExpenseCategories Taxonomy       `json:"expenseCategories"`
	}
)

// All returns every payment method across groups, in display order.
func (p PaymentMethods) All() []PaymentMethod {
	out := make([]PaymentMethod, 0,
		len(p.CreditCards)+len(p.CheckCards)+len(p.Accounts)+len(p.Etc))
	out = append(out, p.CreditCards...)
	out = append(out, p.CheckCards...)
	out = append(out, p.Accounts...)
	out = append(out, p.Etc...)
	return out
}

// Find looks up a payment method by id across all groups.
func (p PaymentMethods) Find(id string) (PaymentMethod, bool) {
	for _, m := range p.All() {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// ForKind returns the group used to pick a detail entry for the given
// payment kind. Cash, pay and other share the Etc group.
func (p PaymentMethods) ForKind(kind PaymentKind) []PaymentMethod {
	switch kind {
	case PayCredit:
		return p.CreditCards
	case PayCheck:
		return p.CheckCards
	case PayAccount:
		return p.Accounts
	case PayCash, PayPay, PayOther:
		return p.Etc
	default:
		return nil
	}
}

// PaymentLabel resolves a payment-detail id to its configured label.
// Transactions keep raw ids, so a renamed or removed entry simply falls
// back to the id itself instead of breaking historical rows.
func (c Config) PaymentLabel(id string) string {
	if m, ok := c.PaymentMethods.Find(id); ok {
		return m.Label
	}
	return id
}

// CategoriesFor returns the taxonomy matching a transaction type.
func (c Config) CategoriesFor(t TransactionType) Taxonomy {
	if t == Income {
		return c.IncomeCategories
	}
	return c.ExpenseCategories
}

// MainCategories returns the main-category names sorted for stable display.
func (tx Taxonomy) MainCategories() []string {
	keys := make([]string, 0, len(tx))
	for k := range tx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddMain adds an empty main category. Returns false when the taxonomy
// is nil or the name is already taken or blank; duplicate main-category
// names are the caller's validation responsibility per the storage
// contract.
func (tx Taxonomy) AddMain(name string) bool {
	name = strings.TrimSpace(name)
	if tx == nil || name == "" {
		return false
	}
	if _, exists := tx[name]; exists {
		return false
	}
	tx[name] = []string{}
	return true
}

// RemoveMain deletes a main category together with its sub-categories.
func (tx Taxonomy) RemoveMain(name string) {
	delete(tx, name)
}

// AddSub appends a sub-category under main, creating main when missing.
// Returns false on a nil taxonomy. Duplicates within one main category
// are permitted but discouraged.
func (tx Taxonomy) AddSub(main, sub string) bool {
	sub = strings.TrimSpace(sub)
	if tx == nil || main == "" || sub == "" {
		return false
	}
	tx[main] = append(tx[main], sub)
	return true
}

// RemoveSub removes the sub-category at the given position under main.
func (tx Taxonomy) RemoveSub(main string, index int) {
	subs, ok := tx[main]
	if !ok || index < 0 || index >= len(subs) {
		return
	}
	tx[main] = append(subs[:index], subs[index+1:]...)
}
