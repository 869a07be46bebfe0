// Package backend assembles the ledger store from configuration: the
// kv backend (memory or sqlite), the event bus, and the optional AMQP
// bridge forwarding bucket updates to external collaborators.
package backend

import (
	"context"
	"fmt"

	appamqp "moneybook/internal/amqp"
	"moneybook/internal/config"
	"moneybook/internal/events"
	"moneybook/internal/kv"
	kvmem "moneybook/internal/kv/memory"
	kvsqlite "moneybook/internal/kv/sqlite"
	"moneybook/internal/ledger"
	"moneybook/internal/log"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles the assembled ledger with its cleanup.
type Result struct {
	Ledger  *ledger.Store
	Bus     *events.Bus
	Cleanup CleanupFunc
}

// Build wires the kv store, event bus, ledger and AMQP bridge per cfg.
// A failing AMQP connection is logged and skipped; the ledger works
// without the bridge.
func Build(cfg *config.Config, logger *log.Logger) (*Result, error) {
	blog := logger.WithComponent(log.ComponentBackend)

	var (
		store   kv.Store
		cleanup CleanupFunc
	)
	switch cfg.DataBackend {
	case "sqlite":
		db, err := kvsqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		store = db
		cleanup = db.Close
		blog.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
	case "memory":
		store = kvmem.New()
		blog.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}

	bus := events.NewBus()

	var amqpClient *appamqp.Client
	if cfg.AMQPURL != "" {
		client, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			blog.Warn("Failed to initialize AMQP client, continuing without event bridge",
				log.FieldError, err)
		} else {
			amqpClient = client
			blog.Info("Initialized AMQP event bridge",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	ledgerStore := ledger.New(store, logger, bus)

	if amqpClient != nil {
		forwardUpdates(bus, amqpClient, blog)
	}

	result := &Result{
		Ledger: ledgerStore,
		Bus:    bus,
		Cleanup: func() error {
			var first error
			if amqpClient != nil {
				if err := amqpClient.Close(); err != nil {
					first = fmt.Errorf("amqp: %w", err)
				}
			}
			if cleanup != nil {
				if err := cleanup(); err != nil && first == nil {
					first = fmt.Errorf("storage: %w", err)
				}
			}
			return first
		},
	}
	return result, nil
}

// forwardUpdates republishes in-process bucket updates onto AMQP.
// Publish failures are logged and dropped; the ledger never depends on
// a consumer's response.
func forwardUpdates(bus *events.Bus, client *appamqp.Client, logger *log.Logger) {
	bus.SubscribeTransactions(func(ev events.TransactionsUpdated) {
		if err := client.PublishTransactionsUpdated(context.Background(), ev.Year, ev.Month, ev.Count); err != nil {
			logger.Warn("Failed to publish transactions-updated message",
				log.FieldError, err,
				log.FieldYear, ev.Year,
				log.FieldMonth, ev.Month)
		}
	})
}
