// Package query is the pure filter→sort pipeline over one bucket's
// in-memory transaction list. It never touches persistence and never
// mutates its input.
package query

import (
	"sort"
	"strings"

	"moneybook/internal/core"
)

// Sort orders supported by the table view.
const (
	DateDesc   Order = "date-desc"
	DateAsc    Order = "date-asc"
	AmountDesc Order = "amount-desc"
	AmountAsc  Order = "amount-asc"
)

type Order string

// IsValid reports whether o names a supported order.
func (o Order) IsValid() bool {
	switch o {
	case DateDesc, DateAsc, AmountDesc, AmountAsc:
		return true
	}
	return false
}

// Filter holds the criteria ANDed together by Apply. Zero-valued fields
// match everything.
type Filter struct {
	User          string
	Type          core.TransactionType
	MainCategory  string
	PaymentDetail string

	// Text matches case-insensitively as a substring of merchant OR detail.
	Text string

	// Inclusive amount bounds; nil means unbounded on that side.
	MinAmount *int64
	MaxAmount *int64
}

// Apply returns the transactions matching every supplied criterion, in
// input order. Applying the same filter to its own output is a no-op.
func (f Filter) Apply(list []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(list))
	text := strings.ToLower(strings.TrimSpace(f.Text))
	for _, tx := range list {
		if f.matches(tx, text) {
			out = append(out, tx)
		}
	}
	return out
}

func (f Filter) matches(tx core.Transaction, text string) bool {
	if f.User != "" && tx.User != f.User {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.MainCategory != "" && tx.MainCategory != f.MainCategory {
		return false
	}
	if f.PaymentDetail != "" && tx.PaymentDetail != f.PaymentDetail {
		return false
	}
	if text != "" {
		merchant := strings.ToLower(tx.Merchant)
		detail := strings.ToLower(tx.Detail)
		if !strings.Contains(merchant, text) && !strings.Contains(detail, text) {
			return false
		}
	}
	if f.MinAmount != nil && tx.Amount.Cents < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && tx.Amount.Cents > *f.MaxAmount {
		return false
	}
	return true
}

// Sort returns a sorted copy of list. Date orders break ties by id in
// the same direction; amount orders are stable, keeping input order for
// equal amounts. An unknown order returns the copy unsorted.
func Sort(list []core.Transaction, order Order) []core.Transaction {
	sorted := append([]core.Transaction(nil), list...)

	switch order {
	case DateDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if a.Date.String() != b.Date.String() {
				return a.Date.String() > b.Date.String()
			}
			return a.ID > b.ID
		})
	case DateAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if a.Date.String() != b.Date.String() {
				return a.Date.String() < b.Date.String()
			}
			return a.ID < b.ID
		})
	case AmountDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Amount.Cents > sorted[j].Amount.Cents
		})
	case AmountAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Amount.Cents < sorted[j].Amount.Cents
		})
	}

	return sorted
}
