package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	appamqp "moneybook/internal/amqp"
	"moneybook/internal/config"
	"moneybook/internal/kv"
	kvmem "moneybook/internal/kv/memory"
	kvsqlite "moneybook/internal/kv/sqlite"
	"moneybook/internal/ledger"
	applog "moneybook/internal/log"
	"moneybook/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.ComponentWorker, applog.Config{Level: slog.LevelInfo})
	applog.SetDefault(logger)

	logger.Info("Starting moneybook-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	var (
		store      kv.Store
		closeStore func() error
	)
	switch cfg.DataBackend {
	case "sqlite":
		db, err := kvsqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize sqlite backend",
				applog.FieldError, err, "db_path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = db
		closeStore = db.Close
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
	case "memory":
		// Only useful for local smoke runs; summaries written here are
		// invisible to a server process with its own memory store.
		store = kvmem.New()
		logger.Warn("Memory backend selected, summaries will not be shared")
	default:
		logger.Error("Unsupported data backend", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	ledgerStore := ledger.New(store, logger, nil)
	summaryWorker := worker.NewSummaryWorker(ledgerStore, logger)

	amqpClient, err := appamqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.ConsumeTransactionsUpdated(ctx, func(msg *appamqp.TransactionsUpdatedMessage) error {
			return summaryWorker.HandleTransactionsUpdated(ctx, msg)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	waitErr := g.Wait()
	if err := amqpClient.Close(); err != nil {
		logger.Warn("AMQP close error", applog.FieldError, err)
	}
	if closeStore != nil {
		if err := closeStore(); err != nil {
			logger.Warn("Storage close error", applog.FieldError, err)
		}
	}
	if waitErr != nil {
		logger.Error("Worker error", applog.FieldError, waitErr)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
