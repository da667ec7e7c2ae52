// Package journal records executed trades: an in-memory append-only
// Ledger that is part of the persisted snapshot, plus optional durable
// mirrors (CSV, SQLite) that receive every entry as it is appended.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags a transaction as a purchase or a sale.
type Kind string

const (
	Buy  Kind = "buy"
	Sell Kind = "sell"
)

// Transaction is one executed trade. Entries are immutable once appended.
// UnitPrice is the instrument's live price at execution time; Timestamp
// is a human-readable capture of the wall clock at append time, a display
// concern only; ordering guarantees come from At.
type Transaction struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Instrument string    `json:"name"`
	Quantity   int64     `json:"quantity"`
	UnitPrice  int64     `json:"price"`
	At         time.Time `json:"at"`
	Timestamp  string    `json:"timestamp"`
}

// Total returns the cash moved by this transaction. Computed in decimal
// so the product cannot wrap int64.
func (t Transaction) Total() decimal.Decimal {
	return decimal.NewFromInt(t.Quantity).Mul(decimal.NewFromInt(t.UnitPrice))
}

// Journal is a durable mirror for executed transactions. Mirror failures
// are reported to the caller but never undo the in-memory append.
type Journal interface {
	RecordTransaction(Transaction) error
	Close() error
}
