package market

import (
	"math"

	"github.com/shopspring/decimal"
)

// Pricing constants for the simulated market. Prices are whole currency
// units; there are no fractional quotes.
const (
	// MinPrice is the floor a price can never drop below, no matter how
	// unlucky the random walk gets.
	MinPrice = 100

	// SeedPriceBase and SeedPriceSpan bound the uniformly random initial
	// price: [SeedPriceBase, SeedPriceBase+SeedPriceSpan-1].
	SeedPriceBase = 10000
	SeedPriceSpan = 5000

	// MaxDelta bounds a single evolution step to [-MaxDelta, +MaxDelta).
	MaxDelta = 1000

	// HistoryCap is how many past prices a stock remembers.
	HistoryCap = 20
)

// Stock is the mutable per-instrument state: the live price, the price at
// the previous evolution tick, the player's holding, and a bounded price
// history (oldest first).
//
// LastPrice of 0 means the stock has not been through an evolution tick
// yet; consumers use that to suppress the delta display. It is not an
// error state.
type Stock struct {
	Price        int64   `json:"price"`
	Quantity     int64   `json:"quantity"`
	LastPrice    int64   `json:"lastPrice"`
	PriceHistory []int64 `json:"priceHistory"`
}

// Delta returns the price change since the previous evolution tick and
// whether that change is meaningful. It is not meaningful before the
// first tick.
func (s *Stock) Delta() (int64, bool) {
	if s.LastPrice == 0 {
		return 0, false
	}
	return s.Price - s.LastPrice, true
}

// Value returns the market value of the held quantity at the live price,
// in decimal so the product cannot wrap int64.
func (s *Stock) Value() decimal.Decimal {
	return decimal.NewFromInt(s.Price).Mul(decimal.NewFromInt(s.Quantity))
}

// step applies one evolution move: remember the old price, add delta,
// floor, clamp at MinPrice, and record the result in the history.
func (s *Stock) step(delta float64) {
	s.LastPrice = s.Price
	next := int64(math.Floor(float64(s.Price) + delta))
	if next < MinPrice {
		next = MinPrice
	}
	s.Price = next
	s.pushHistory(next)
}

// pushHistory appends p to the price history, evicting the oldest entry
// once the capacity is exceeded.
func (s *Stock) pushHistory(p int64) {
	s.PriceHistory = append(s.PriceHistory, p)
	if len(s.PriceHistory) > HistoryCap {
		s.PriceHistory = s.PriceHistory[1:]
	}
}
