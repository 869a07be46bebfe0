package ledger

import (
	"context"
	"encoding/json"

	"moneybook/internal/core"
)

// The auxiliary collections share the transaction buckets' partitioning
// discipline but carry payloads the engine does not interpret.

// LoadAccountTransactions returns the opaque account-ledger entries for
// one bucket; empty when never written.
func (s *Store) LoadAccountTransactions(ctx context.Context, year, month int) []json.RawMessage {
	list := []json.RawMessage{}
	if !s.loadJSON(ctx, BuildKey(PrefixAccountTransactions, year, month), &list) {
		return []json.RawMessage{}
	}
	return list
}

// SaveAccountTransactions replaces the bucket's account entries.
func (s *Store) SaveAccountTransactions(ctx context.Context, year, month int, list []json.RawMessage) {
	if list == nil {
		list = []json.RawMessage{}
	}
	s.storeJSON(ctx, BuildKey(PrefixAccountTransactions, year, month), list)
}

// LoadBudgets returns the category→limit mapping for one bucket; empty
// when never written.
func (s *Store) LoadBudgets(ctx context.Context, year, month int) map[string]core.Money {
	budgets := map[string]core.Money{}
	if !s.loadJSON(ctx, BuildKey(PrefixBudgets, year, month), &budgets) {
		return map[string]core.Money{}
	}
	return budgets
}

// SaveBudgets replaces the bucket's budget mapping.
func (s *Store) SaveBudgets(ctx context.Context, year, month int, budgets map[string]core.Money) {
	if budgets == nil {
		budgets = map[string]core.Money{}
	}
	s.storeJSON(ctx, BuildKey(PrefixBudgets, year, month), budgets)
}

// LoadMonthlySummary returns the computed summary for one bucket; the
// second return is false when none has been produced yet.
func (s *Store) LoadMonthlySummary(ctx context.Context, year, month int) (core.MonthSummary, bool) {
	var summary core.MonthSummary
	if !s.loadJSON(ctx, BuildKey(PrefixMonthlySummary, year, month), &summary) {
		return core.MonthSummary{}, false
	}
	return summary, true
}

// SaveMonthlySummary replaces the bucket's summary.
func (s *Store) SaveMonthlySummary(ctx context.Context, year, month int, summary core.MonthSummary) {
	s.storeJSON(ctx, BuildKey(PrefixMonthlySummary, year, month), summary)
}

// LoadFixedTransactions returns the recurring-transaction templates. The
// engine stores them verbatim; no scheduler runs here.
func (s *Store) LoadFixedTransactions(ctx context.Context) []json.RawMessage {
	list := []json.RawMessage{}
	if !s.loadJSON(ctx, KeyFixedTransactions, &list) {
		return []json.RawMessage{}
	}
	return list
}

// SaveFixedTransactions replaces the template list.
func (s *Store) SaveFixedTransactions(ctx context.Context, list []json.RawMessage) {
	if list == nil {
		list = []json.RawMessage{}
	}
	s.storeJSON(ctx, KeyFixedTransactions, list)
}
