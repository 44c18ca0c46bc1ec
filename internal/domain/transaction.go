package domain

import "time"

// TransactionType tells whether a transaction added or removed funds.
type TransactionType string

const (
	TransactionDebit  TransactionType = "DEBIT"
	TransactionCredit TransactionType = "CREDIT"
)

// Transaction is a single wallet ledger entry. Entries are never mutated.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Reference   string          `json:"reference,omitempty"` // settlement key, empty for top-ups
	CreatedAt   time.Time       `json:"created_at"`
}

// TypeForAmount returns DEBIT for negative amounts and CREDIT otherwise.
func TypeForAmount(amount float64) TransactionType {
	if amount < 0 {
		return TransactionDebit
	}
	return TransactionCredit
}
