package ledger

import "fmt"

// Storage key layout. Partitioned collections get a prefix plus a
// year/month suffix; config and the fixed-transaction templates live
// under single keys. Prefixes must never overlap.
const (
	KeyConfig            = "config"
	KeyFixedTransactions = "fixed_transactions"

	PrefixTransactions        = "transactions:"
	PrefixAccountTransactions = "account_transactions:"
	PrefixBudgets             = "budgets:"
	PrefixMonthlySummary      = "monthly_summary:"
)

// BuildKey renders the storage key for one monthly bucket. The month is
// zero-padded to two digits; the year is used verbatim, so range checks
// are the caller's job.
func BuildKey(prefix string, year, month int) string {
	return fmt.Sprintf("%s%d_%02d", prefix, year, month)
}
