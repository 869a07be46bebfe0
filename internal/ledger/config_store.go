package ledger

import (
	"context"

	"moneybook/internal/core"
	"moneybook/internal/events"
)

// LoadConfig returns the stored config. The second return is false when
// nothing has been saved yet (or the stored text is corrupt); falling
// back to core.DefaultConfig is the caller's decision, never the store's.
func (s *Store) LoadConfig(ctx context.Context) (core.Config, bool) {
	var cfg core.Config
	if !s.loadJSON(ctx, KeyConfig, &cfg) {
		return core.Config{}, false
	}
	return cfg, true
}

// SaveConfig replaces the stored config wholesale and announces the new
// value. Uniqueness and referential checks are the caller's job; the
// store persists whatever it is given.
func (s *Store) SaveConfig(ctx context.Context, cfg core.Config) {
	if !s.storeJSON(ctx, KeyConfig, cfg) {
		return
	}
	s.bus.PublishConfig(events.ConfigUpdated{Config: cfg})
}
