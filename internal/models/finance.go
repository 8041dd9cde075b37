package models

import "time"

// TransactionType distinguishes ledger credits from debits.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// LedgerTransaction is one append-only entry in the municipal ledger.
type LedgerTransaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// Finance holds the running revenue/expense totals and the transaction
// history. The balance is always derived (revenue minus expenses), never
// stored.
type Finance struct {
	Revenue      int64               `json:"revenue"`
	Expenses     int64               `json:"expenses"`
	Transactions []LedgerTransaction `json:"transactions"`
}

// FinanceSummary is the derived view of the ledger totals.
type FinanceSummary struct {
	Revenue  int64 `json:"revenue"`
	Expenses int64 `json:"expenses"`
	Balance  int64 `json:"balance"`
}

// MonthlyPoint is one point of the synthetic monthly income/expense series
// used for charting. It does not reconstruct real per-month history; none is
// stored.
type MonthlyPoint struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}
