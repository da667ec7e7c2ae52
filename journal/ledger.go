package journal

// Ledger is the append-only trade history. Entries are stored in
// insertion order and never mutated or removed except by a full Reset.
// The Ledger does no locking; the owning engine serializes access.
type Ledger struct {
	entries []Transaction
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append adds a transaction to the end of the ledger.
func (l *Ledger) Append(t Transaction) {
	l.entries = append(l.entries, t)
}

// Len reports how many transactions have been recorded.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// All returns the transactions in insertion order.
func (l *Ledger) All() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns the transactions most recent first. Reverse-chronological
// order is applied here at read time; storage order stays insertion order.
func (l *Ledger) Recent() []Transaction {
	out := make([]Transaction, len(l.entries))
	for i, t := range l.entries {
		out[len(l.entries)-1-i] = t
	}
	return out
}

// Replace installs a persisted transaction sequence, discarding the
// current one. Used by the load path.
func (l *Ledger) Replace(entries []Transaction) {
	l.entries = append([]Transaction(nil), entries...)
}

// Reset drops every entry.
func (l *Ledger) Reset() {
	l.entries = nil
}
