// Package worker recomputes the persisted monthly summaries in response
// to bucket-update messages, keeping the read side cheap for callers
// that only want totals.
package worker

import (
	"context"
	"fmt"

	"moneybook/internal/amqp"
	"moneybook/internal/core"
	"moneybook/internal/ledger"
	"moneybook/internal/log"
)

// SummaryWorker listens for transactions-updated messages and rebuilds
// the summary of the affected bucket from its current contents.
type SummaryWorker struct {
	ledger *ledger.Store
	logger *log.Logger
}

func NewSummaryWorker(ledgerStore *ledger.Store, logger *log.Logger) *SummaryWorker {
	return &SummaryWorker{
		ledger: ledgerStore,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleTransactionsUpdated recomputes and persists the summary for the
// bucket named in msg. The message count is advisory; the bucket itself
// is the source of truth.
func (w *SummaryWorker) HandleTransactionsUpdated(ctx context.Context, msg *amqp.TransactionsUpdatedMessage) error {
	if msg.Year < 1970 || msg.Month < 1 || msg.Month > 12 {
		return fmt.Errorf("invalid bucket %d-%d in message", msg.Year, msg.Month)
	}

	w.logger.InfoContext(ctx, "Rebuilding monthly summary",
		log.FieldYear, msg.Year,
		log.FieldMonth, msg.Month,
		log.FieldCount, msg.Count)

	summary := w.Rebuild(ctx, msg.Year, msg.Month)

	w.logger.InfoContext(ctx, "Monthly summary rebuilt",
		log.FieldYear, msg.Year,
		log.FieldMonth, msg.Month,
		log.FieldCount, summary.Count,
		"total_income", summary.TotalIncome.Cents,
		"total_expense", summary.TotalExpense.Cents)
	return nil
}

// Rebuild loads the bucket, summarizes it and stores the result. It is
// also used directly by the serving side when a summary is requested
// before the worker has produced one.
func (w *SummaryWorker) Rebuild(ctx context.Context, year, month int) core.MonthSummary {
	list := w.ledger.LoadTransactions(ctx, year, month)
	summary := core.Summarize(year, month, list)
	w.ledger.SaveMonthlySummary(ctx, year, month, summary)
	return summary
}
