// Package sim drives the market simulation: the trading engine that
// validates and executes orders, the price evolution path, and the cycle
// scheduler that paces them.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantlab/stocksim/journal"
	"github.com/quantlab/stocksim/market"
	"github.com/quantlab/stocksim/pkg/id"
	"github.com/quantlab/stocksim/store"
)

// Listener is notified after every state-mutating operation with the
// snapshot to act on. The persistence gateway and the view layer register
// independently; a listener error is reported to the caller but never
// rolls the mutation back.
type Listener interface {
	StateChanged(store.Snapshot) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(store.Snapshot) error

func (f ListenerFunc) StateChanged(s store.Snapshot) error { return f(s) }

// Engine executes trades and price evolution against a single market
// store. All mutations are serialized through one mutex: timer callbacks
// and user-triggered orders never interleave, which also settles what a
// rapid double-submission does (the second request re-validates against
// the state the first one left behind).
type Engine struct {
	mu        sync.Mutex
	store     *market.Store
	ledger    *journal.Ledger
	mirror    journal.Journal
	listeners []Listener
	now       func() time.Time
}

func NewEngine(st *market.Store, l *journal.Ledger) *Engine {
	return &Engine{
		store:  st,
		ledger: l,
		now:    time.Now,
	}
}

// SetMirror attaches an optional durable journal that receives every
// executed transaction.
func (e *Engine) SetMirror(j journal.Journal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mirror = j
}

// AddListener registers a state-changed consumer.
func (e *Engine) AddListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Buy purchases qty shares of the named instrument at its live price.
// Validation happens before any mutation, so a failed buy leaves balance,
// holding, and ledger untouched. A persistence failure after the mutation
// is reported wrapped in ErrPersistence; the trade itself stands.
func (e *Engine) Buy(name string, qty int64) (journal.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if qty <= 0 {
		return journal.Transaction{}, ErrInvalidQuantity
	}
	s, ok := e.store.Stock(name)
	if !ok {
		return journal.Transaction{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, name)
	}

	// Multiply in decimal: an int64 product could wrap for huge
	// quantities and sneak a negative cost past the sufficiency check.
	cost := decimal.NewFromInt(s.Price).Mul(decimal.NewFromInt(qty))
	if e.store.Cash().LessThan(cost) {
		return journal.Transaction{}, ErrInsufficientFunds
	}

	e.store.Debit(cost)
	s.Quantity += qty
	tx, mirrorErr := e.appendLocked(journal.Buy, name, qty, s.Price)

	return tx, e.finishLocked(mirrorErr)
}

// Sell sells qty shares of the named instrument at its live price. There
// is no short selling and no partial fill: the full quantity must be
// held.
func (e *Engine) Sell(name string, qty int64) (journal.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if qty <= 0 {
		return journal.Transaction{}, ErrInvalidQuantity
	}
	s, ok := e.store.Stock(name)
	if !ok {
		return journal.Transaction{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, name)
	}
	if s.Quantity < qty {
		return journal.Transaction{}, ErrInsufficientShares
	}

	e.store.Credit(decimal.NewFromInt(s.Price).Mul(decimal.NewFromInt(qty)))
	s.Quantity -= qty
	tx, mirrorErr := e.appendLocked(journal.Sell, name, qty, s.Price)

	return tx, e.finishLocked(mirrorErr)
}

// Evolve advances every instrument's price one tick and notifies
// listeners. The scheduler calls this on the evolution timer.
func (e *Engine) Evolve() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Evolve()
	return e.afterMutationLocked()
}

// Reset reseeds the market, clears the ledger, and saves the fresh
// snapshot. The caller re-arms the scheduler for a fresh window.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Initialize()
	e.ledger.Reset()
	return e.afterMutationLocked()
}

func (e *Engine) appendLocked(kind journal.Kind, name string, qty, unitPrice int64) (journal.Transaction, error) {
	at := e.now()
	tx := journal.Transaction{
		ID:         id.New(),
		Kind:       kind,
		Instrument: name,
		Quantity:   qty,
		UnitPrice:  unitPrice,
		At:         at,
		Timestamp:  at.Format("2006-01-02 15:04:05"),
	}
	e.ledger.Append(tx)

	var err error
	if e.mirror != nil {
		err = e.mirror.RecordTransaction(tx)
	}
	return tx, err
}

// finishLocked runs the listener fan-out and folds in a pending mirror
// error. The first persistence problem wins; the mutation is committed
// either way.
func (e *Engine) finishLocked(mirrorErr error) error {
	if err := e.afterMutationLocked(); err != nil {
		return err
	}
	if mirrorErr != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, mirrorErr)
	}
	return nil
}

func (e *Engine) afterMutationLocked() error {
	snap := e.snapshotLocked()
	for _, l := range e.listeners {
		if err := l.StateChanged(snap); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return nil
}

func (e *Engine) snapshotLocked() store.Snapshot {
	return store.Snapshot{
		Balance:      e.store.Cash(),
		Stocks:       e.store.Stocks(),
		Transactions: e.ledger.All(),
	}
}
