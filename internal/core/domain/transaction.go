package domain

import "time"

// TransactionKind represents the direction of a ledger entry.
type TransactionKind string

const (
	TransactionKindSent     TransactionKind = "sent"
	TransactionKindReceived TransactionKind = "received"
	TransactionKindTransfer TransactionKind = "transfer"
)

// TransactionStatus is the lifecycle state of a transaction. The simulated
// ledger only models confirmed entries; there is no pending or failed state.
type TransactionStatus string

const TransactionStatusConfirmed TransactionStatus = "confirmed"

// Transaction is an immutable ledger entry. It is created exactly once per
// successful send or transfer and never mutated afterwards.
type Transaction struct {
	ID        string            `json:"id"`
	Kind      TransactionKind   `json:"kind"`
	Amount    float64           `json:"amount"`
	Currency  Currency          `json:"currency"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Timestamp time.Time         `json:"timestamp"`
	Status    TransactionStatus `json:"status"`
	Fee       float64           `json:"fee"`
	Note      string            `json:"note,omitempty"`
}
