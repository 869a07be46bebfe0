package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moneybook/internal/core"
	"moneybook/internal/events"
	"moneybook/internal/log"
)

// LoadTransactions returns the bucket for (year, month). A bucket that
// has never been written yields an empty list, never an error.
func (s *Store) LoadTransactions(ctx context.Context, year, month int) []core.Transaction {
	list := []core.Transaction{}
	if !s.loadJSON(ctx, BuildKey(PrefixTransactions, year, month), &list) {
		return []core.Transaction{}
	}
	return list
}

// SaveTransactions replaces the bucket's contents wholesale and, on a
// successful write, announces the updated bucket.
func (s *Store) SaveTransactions(ctx context.Context, year, month int, list []core.Transaction) {
	if list == nil {
		list = []core.Transaction{}
	}
	if !s.storeJSON(ctx, BuildKey(PrefixTransactions, year, month), list) {
		return
	}
	s.bus.PublishTransactions(events.TransactionsUpdated{
		Year: year, Month: month, Count: len(list),
	})
}

// PutTransaction files tx in the bucket matching its own date, regardless
// of which month a caller happens to be viewing. An existing id is
// updated in place keeping its createdAt; a missing or unknown id falls
// back to an insert with a freshly generated id. The resulting entry is
// returned.
func (s *Store) PutTransaction(ctx context.Context, tx core.Transaction) core.Transaction {
	year, month := tx.Date.Year(), tx.Date.Month()
	list := s.LoadTransactions(ctx, year, month)
	now := s.clock()

	tx.UpdatedAt = now
	replaced := false
	if tx.ID != "" {
		for i, existing := range list {
			if existing.ID == tx.ID {
				tx.CreatedAt = existing.CreatedAt
				list[i] = tx
				replaced = true
				break
			}
		}
	}
	if !replaced {
		if tx.ID == "" {
			tx.ID = NewTransactionID(year, month, now)
		}
		tx.CreatedAt = now
		list = append(list, tx)
	}

	s.SaveTransactions(ctx, year, month, list)
	return tx
}

// MoveTransaction handles an edit that changes the transaction's date
// across buckets: the entry is written into the new bucket first, then
// removed from the old one. If the removal write is rejected, the insert
// is undone and the failure reported, so the ledger never silently keeps
// a duplicate.
func (s *Store) MoveTransaction(ctx context.Context, tx core.Transaction, from core.Date) (core.Transaction, error) {
	if from.SameMonth(tx.Date) {
		return s.PutTransaction(ctx, tx), nil
	}

	fromYear, fromMonth := from.Year(), from.Month()
	oldList := s.LoadTransactions(ctx, fromYear, fromMonth)

	var moved *core.Transaction
	remaining := make([]core.Transaction, 0, len(oldList))
	for _, existing := range oldList {
		if existing.ID == tx.ID {
			e := existing
			moved = &e
			continue
		}
		remaining = append(remaining, existing)
	}
	if moved == nil {
		// Nothing to move; treat as a plain save into the new bucket.
		return s.PutTransaction(ctx, tx), nil
	}

	tx.CreatedAt = moved.CreatedAt
	tx.UpdatedAt = s.clock()

	toYear, toMonth := tx.Date.Year(), tx.Date.Month()
	newList := s.LoadTransactions(ctx, toYear, toMonth)
	newList = append(newList, tx)
	if !s.storeJSON(ctx, BuildKey(PrefixTransactions, toYear, toMonth), newList) {
		return tx, fmt.Errorf("move %s: write to bucket %d-%02d rejected", tx.ID, toYear, toMonth)
	}

	if !s.storeJSON(ctx, BuildKey(PrefixTransactions, fromYear, fromMonth), remaining) {
		// Undo the insert so the entry is not duplicated across buckets.
		if !s.storeJSON(ctx, BuildKey(PrefixTransactions, toYear, toMonth), newList[:len(newList)-1]) {
			s.logger.ErrorContext(ctx, "move rollback failed, transaction duplicated",
				log.FieldTxID, tx.ID,
				log.FieldYear, toYear, log.FieldMonth, toMonth)
		}
		return tx, fmt.Errorf("move %s: removal from bucket %d-%02d rejected", tx.ID, fromYear, fromMonth)
	}

	s.bus.PublishTransactions(events.TransactionsUpdated{
		Year: toYear, Month: toMonth, Count: len(newList),
	})
	s.bus.PublishTransactions(events.TransactionsUpdated{
		Year: fromYear, Month: fromMonth, Count: len(remaining),
	})
	return tx, nil
}

// DeleteTransactions removes every entry whose id is in ids from the
// bucket and persists the remainder. Ids not present are ignored; the
// removed count is returned. Single and bulk delete share this path.
func (s *Store) DeleteTransactions(ctx context.Context, year, month int, ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	list := s.LoadTransactions(ctx, year, month)
	remaining := make([]core.Transaction, 0, len(list))
	for _, tx := range list {
		if _, gone := drop[tx.ID]; gone {
			continue
		}
		remaining = append(remaining, tx)
	}
	removed := len(list) - len(remaining)
	if removed == 0 {
		return 0
	}

	s.SaveTransactions(ctx, year, month, remaining)
	return removed
}

// NewTransactionID builds an id from the bucket, the current time and a
// random suffix. Collisions are improbable rather than impossible, and
// ids are not strictly monotonic.
func NewTransactionID(year, month int, now time.Time) string {
	return fmt.Sprintf("tx_%d%02d_%d_%s",
		year, month, now.UnixMilli(), uuid.NewString()[:8])
}
