package events

import (
	"testing"

	"moneybook/internal/core"
)

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic or block.
	bus.PublishConfig(ConfigUpdated{})
	bus.PublishTransactions(TransactionsUpdated{Year: 2025, Month: 3, Count: 1})
}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second []TransactionsUpdated
	bus.SubscribeTransactions(func(ev TransactionsUpdated) { first = append(first, ev) })
	bus.SubscribeTransactions(func(ev TransactionsUpdated) { second = append(second, ev) })

	ev := TransactionsUpdated{Year: 2025, Month: 3, Count: 2}
	bus.PublishTransactions(ev)

	if len(first) != 1 || first[0] != ev {
		t.Errorf("first subscriber got %v", first)
	}
	if len(second) != 1 || second[0] != ev {
		t.Errorf("second subscriber got %v", second)
	}
}

func TestBus_SubscribeDuringPublish(t *testing.T) {
	bus := NewBus()

	var calls int
	bus.SubscribeTransactions(func(TransactionsUpdated) {
		calls++
		// Publishing works off a snapshot, so registering here must not
		// deadlock and must only take effect for later publishes.
		bus.SubscribeTransactions(func(TransactionsUpdated) { calls += 10 })
	})

	bus.PublishTransactions(TransactionsUpdated{Year: 2025, Month: 3})
	if calls != 1 {
		t.Fatalf("first publish reached %d calls, want 1", calls)
	}
	bus.PublishTransactions(TransactionsUpdated{Year: 2025, Month: 3})
	if calls != 12 {
		t.Errorf("second publish reached %d calls, want 12", calls)
	}
}

func TestBus_ConfigEventCarriesValue(t *testing.T) {
	bus := NewBus()

	var got []ConfigUpdated
	bus.SubscribeConfig(func(ev ConfigUpdated) { got = append(got, ev) })

	cfg := core.DefaultConfig()
	bus.PublishConfig(ConfigUpdated{Config: cfg})

	if len(got) != 1 {
		t.Fatalf("received %d events, want 1", len(got))
	}
	if got[0].Config.PaymentLabel("cash") != "Cash" {
		t.Error("published config lost its payment methods")
	}
}
