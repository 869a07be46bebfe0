// Package ledger implements the persistence and bucketing rules for the
// moneybook: config, monthly transaction buckets, budgets, summaries and
// the auxiliary collections, all stored as JSON through a kv.Store.
//
// Reads substitute a caller-visible default when a key is absent or its
// stored text is corrupt. Writes are best-effort: a rejected write is
// logged and dropped, leaving the previously persisted value in place.
package ledger

import (
	"context"
	"encoding/json"
	"time"

	"moneybook/internal/events"
	"moneybook/internal/kv"
	"moneybook/internal/log"
)

type Store struct {
	kv     kv.Store
	logger *log.Logger
	bus    *events.Bus
	clock  func() time.Time
}

func New(store kv.Store, logger *log.Logger, bus *events.Bus) *Store {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Store{
		kv:     store,
		logger: logger.WithComponent(log.ComponentLedger),
		bus:    bus,
		clock:  time.Now,
	}
}

// Bus exposes the event bus so collaborators can subscribe to update
// signals.
func (s *Store) Bus() *events.Bus {
	return s.bus
}

// loadJSON decodes the value under key into dst. It reports false when
// the key is absent, unreadable or holds text that fails to parse;
// corruption is logged, never surfaced. On failure dst may hold a
// partial decode, so callers must discard it and serve their default.
func (s *Store) loadJSON(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "read failed, using default",
			log.FieldKey, key, log.FieldError, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.ErrorContext(ctx, "corrupt stored value, using default",
			log.FieldKey, key, log.FieldError, err)
		return false
	}
	return true
}

// storeJSON serializes v under key. A rejected write is logged and
// reported as false; the previously stored value stays authoritative.
func (s *Store) storeJSON(ctx context.Context, key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.ErrorContext(ctx, "serialize failed, write dropped",
			log.FieldKey, key, log.FieldError, err)
		return false
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		s.logger.ErrorContext(ctx, "write rejected, value dropped",
			log.FieldKey, key, log.FieldError, err)
		return false
	}
	return true
}
