package sim

import (
	"github.com/shopspring/decimal"

	"github.com/quantlab/stocksim/journal"
	"github.com/quantlab/stocksim/market"
	"github.com/quantlab/stocksim/store"
)

// StockView is a read-only projection of one instrument for display.
// HasDelta is false until the instrument has been through an evolution
// tick, which suppresses the change indicator rather than showing a
// bogus move from the sentinel.
type StockView struct {
	Name      string
	Price     int64
	LastPrice int64
	Quantity  int64
	Value     decimal.Decimal
	Delta     int64
	HasDelta  bool
	History   []int64
}

// List returns every instrument in registry order.
func (e *Engine) List() []StockView {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := e.store.Names()
	out := make([]StockView, 0, len(names))
	for _, name := range names {
		s, ok := e.store.Stock(name)
		if !ok {
			continue
		}
		out = append(out, viewOf(name, s))
	}
	return out
}

// Detail returns a single instrument's projection, including its price
// history for charting.
func (e *Engine) Detail(name string) (StockView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.store.Stock(name)
	if !ok {
		return StockView{}, false
	}
	return viewOf(name, s), true
}

// Balance returns the current cash balance.
func (e *Engine) Balance() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Cash()
}

// PortfolioValue returns the market value of all holdings.
func (e *Engine) PortfolioValue() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.PortfolioValue()
}

// Transactions returns the ledger most recent first.
func (e *Engine) Transactions() []journal.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Recent()
}

// Snapshot returns the current persistable state.
func (e *Engine) Snapshot() store.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func viewOf(name string, s *market.Stock) StockView {
	delta, has := s.Delta()
	return StockView{
		Name:      name,
		Price:     s.Price,
		LastPrice: s.LastPrice,
		Quantity:  s.Quantity,
		Value:     s.Value(),
		Delta:     delta,
		HasDelta:  has,
		History:   append([]int64(nil), s.PriceHistory...),
	}
}
