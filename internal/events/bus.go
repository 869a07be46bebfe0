// Package events carries the boundary signals the ledger emits after a
// successful mutation. Delivery is synchronous and fire-and-forget: the
// ledger never waits on, or reacts to, a subscriber.
package events

import (
	"sync"

	"moneybook/internal/core"
)

type (
	// ConfigUpdated is emitted after a config save, with the full new value.
	ConfigUpdated struct {
		Config core.Config
	}

	// TransactionsUpdated is emitted after any transaction-bucket write.
	TransactionsUpdated struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Count int `json:"count"`
	}
)

// Bus is an in-process subscriber registry. Collaborators use it to
// invalidate their cached copies of ledger state.
type Bus struct {
	mu         sync.Mutex
	configSubs []func(ConfigUpdated)
	txSubs     []func(TransactionsUpdated)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SubscribeConfig(fn func(ConfigUpdated)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.configSubs = append(b.configSubs, fn)
}

func (b *Bus) SubscribeTransactions(fn func(TransactionsUpdated)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.txSubs = append(b.txSubs, fn)
}

func (b *Bus) PublishConfig(ev ConfigUpdated) {
	b.mu.Lock()
	subs := append([]func(ConfigUpdated){}, b.configSubs...)
	b.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (b *Bus) PublishTransactions(ev TransactionsUpdated) {
	b.mu.Lock()
	subs := append([]func(TransactionsUpdated){}, b.txSubs...)
	b.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}
