package market

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStartingBalance is the cash a fresh portfolio begins with.
var DefaultStartingBalance = decimal.NewFromInt(100000)

// Store is the single source of truth for market state: one Stock per
// registry name plus the player's cash balance. The trading engine and
// the price evolution path mutate the same object graph held here; the
// Store itself does no locking, serialization is the owner's job.
type Store struct {
	names    []string
	stocks   map[string]*Stock
	cash     decimal.Decimal
	starting decimal.Decimal
	rng      *rand.Rand
}

// NewStore creates an empty store over the given instrument catalog. The
// store is unusable until Initialize or Load runs. A nil rng gets a
// time-seeded source.
func NewStore(names []string, starting decimal.Decimal, rng *rand.Rand) *Store {
	if len(names) == 0 {
		names = DefaultInstruments
	}
	if starting.IsZero() {
		starting = DefaultStartingBalance
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{
		names:    append([]string(nil), names...),
		stocks:   make(map[string]*Stock, len(names)),
		starting: starting,
		rng:      rng,
	}
}

// Initialize seeds every registry instrument with a random starting price,
// an empty holding, and a one-element price history, and resets cash to
// the starting balance. Any previous state is discarded.
func (st *Store) Initialize() {
	st.stocks = make(map[string]*Stock, len(st.names))
	for _, name := range st.names {
		p := int64(SeedPriceBase + st.rng.Intn(SeedPriceSpan))
		st.stocks[name] = &Stock{
			Price:        p,
			Quantity:     0,
			LastPrice:    0,
			PriceHistory: []int64{p},
		}
	}
	st.cash = st.starting
}

// Load installs externally persisted state, replacing whatever the store
// held. Prices below MinPrice are clamped and an empty PriceHistory is
// backfilled from the current price; LastPrice is taken as given, since a
// zero here is the legitimate no-tick-yet sentinel. Registry names
// missing from the snapshot are seeded fresh so a catalog change never
// strands an instrument.
func (st *Store) Load(cash decimal.Decimal, stocks map[string]*Stock) {
	st.cash = cash
	st.stocks = make(map[string]*Stock, len(st.names))
	for _, name := range st.names {
		s, ok := stocks[name]
		if !ok || s == nil {
			p := int64(SeedPriceBase + st.rng.Intn(SeedPriceSpan))
			st.stocks[name] = &Stock{Price: p, PriceHistory: []int64{p}}
			continue
		}
		if s.Price < MinPrice {
			s.Price = MinPrice
		}
		if len(s.PriceHistory) == 0 {
			s.PriceHistory = []int64{s.Price}
		}
		st.stocks[name] = s
	}
}

// Evolve advances every instrument's price one step of the bounded random
// walk: remember the old price, apply a uniform delta in
// [-MaxDelta, +MaxDelta), floor the result, and clamp at MinPrice. Every
// instrument moves every tick, independently of the others.
func (st *Store) Evolve() {
	for _, name := range st.names {
		st.stocks[name].step(st.rng.Float64()*(2*MaxDelta) - MaxDelta)
	}
}

// Names returns the instrument catalog in registry order.
func (st *Store) Names() []string {
	return append([]string(nil), st.names...)
}

// Stock returns the live state for a registry instrument.
func (st *Store) Stock(name string) (*Stock, bool) {
	s, ok := st.stocks[name]
	return s, ok
}

// Stocks exposes the full instrument mapping. Callers must treat it as
// read-only; it is the live object graph, not a copy.
func (st *Store) Stocks() map[string]*Stock {
	return st.stocks
}

// Cash returns the current balance.
func (st *Store) Cash() decimal.Decimal {
	return st.cash
}

// Credit adds amount to the cash balance.
func (st *Store) Credit(amount decimal.Decimal) {
	st.cash = st.cash.Add(amount)
}

// Debit subtracts amount from the cash balance. The caller has already
// verified sufficiency; the balance never goes negative through the
// trading path.
func (st *Store) Debit(amount decimal.Decimal) {
	st.cash = st.cash.Sub(amount)
}

// PortfolioValue returns the summed market value of all holdings.
func (st *Store) PortfolioValue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range st.stocks {
		total = total.Add(s.Value())
	}
	return total
}
