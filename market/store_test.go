package market

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, names ...string) *Store {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Alpha", "Beta"}
	}
	return NewStore(names, decimal.NewFromInt(100000), rand.New(rand.NewSource(1)))
}

func TestInitializeSeedsEveryInstrument(t *testing.T) {
	st := newTestStore(t)
	st.Initialize()

	for _, name := range st.Names() {
		s, ok := st.Stock(name)
		require.True(t, ok, "missing %q", name)

		assert.GreaterOrEqual(t, s.Price, int64(SeedPriceBase))
		assert.Less(t, s.Price, int64(SeedPriceBase+SeedPriceSpan))
		assert.Zero(t, s.Quantity)
		assert.Zero(t, s.LastPrice)
		assert.Equal(t, []int64{s.Price}, s.PriceHistory)
	}
	assert.True(t, st.Cash().Equal(decimal.NewFromInt(100000)))
}

func TestEvolveKeepsPriceAboveFloor(t *testing.T) {
	st := newTestStore(t)
	st.Initialize()

	// Pin one instrument near the floor so clamping actually triggers.
	s, _ := st.Stock("Alpha")
	s.Price = MinPrice + 50

	for i := 0; i < 500; i++ {
		st.Evolve()
		for _, name := range st.Names() {
			s, _ := st.Stock(name)
			assert.GreaterOrEqual(t, s.Price, int64(MinPrice))
		}
	}
}

func TestStepClampsAtFloorNotNegative(t *testing.T) {
	s := &Stock{Price: 150, PriceHistory: []int64{150}}
	s.step(-1000)

	assert.Equal(t, int64(MinPrice), s.Price)
	assert.Equal(t, int64(150), s.LastPrice)
	assert.Equal(t, []int64{150, MinPrice}, s.PriceHistory)
}

func TestStepFloorsTowardNegativeInfinity(t *testing.T) {
	s := &Stock{Price: 1000, PriceHistory: []int64{1000}}
	s.step(-0.5)
	assert.Equal(t, int64(999), s.Price)

	s.step(0.5)
	assert.Equal(t, int64(999), s.Price)
}

func TestHistoryEvictsOldestAtCapacity(t *testing.T) {
	s := &Stock{Price: 12000, PriceHistory: []int64{12000}}

	var pushed []int64
	for i := 0; i < 2*HistoryCap; i++ {
		s.step(10)
		pushed = append(pushed, s.Price)
	}

	require.Len(t, s.PriceHistory, HistoryCap)
	assert.Equal(t, pushed[len(pushed)-HistoryCap:], s.PriceHistory)
}

func TestEvolveSetsLastPriceAndDelta(t *testing.T) {
	st := newTestStore(t)
	st.Initialize()

	s, _ := st.Stock("Alpha")
	before := s.Price
	_, ok := s.Delta()
	assert.False(t, ok, "delta should be suppressed before the first tick")

	st.Evolve()

	assert.Equal(t, before, s.LastPrice)
	delta, ok := s.Delta()
	assert.True(t, ok)
	assert.Equal(t, s.Price-before, delta)
}

func TestLoadBackfillsAndClamps(t *testing.T) {
	st := newTestStore(t, "Alpha", "Beta", "Gamma")

	st.Load(decimal.NewFromInt(500), map[string]*Stock{
		"Alpha": {Price: 12000, Quantity: 3, LastPrice: 11000, PriceHistory: []int64{11000, 12000}},
		"Beta":  {Price: 40}, // below floor, no history
		// Gamma absent from the snapshot entirely.
	})

	a, _ := st.Stock("Alpha")
	assert.Equal(t, int64(12000), a.Price)
	assert.Equal(t, int64(3), a.Quantity)
	assert.Equal(t, []int64{11000, 12000}, a.PriceHistory)

	b, _ := st.Stock("Beta")
	assert.Equal(t, int64(MinPrice), b.Price)
	assert.Equal(t, []int64{int64(MinPrice)}, b.PriceHistory)

	g, ok := st.Stock("Gamma")
	require.True(t, ok, "missing registry names must be seeded")
	assert.GreaterOrEqual(t, g.Price, int64(SeedPriceBase))
	assert.Equal(t, []int64{g.Price}, g.PriceHistory)

	assert.True(t, st.Cash().Equal(decimal.NewFromInt(500)))
}

func TestPortfolioValue(t *testing.T) {
	st := newTestStore(t)
	st.Initialize()

	a, _ := st.Stock("Alpha")
	b, _ := st.Stock("Beta")
	a.Price, a.Quantity = 12000, 5
	b.Price, b.Quantity = 10000, 2

	assert.True(t, st.PortfolioValue().Equal(decimal.NewFromInt(5*12000+2*10000)))
}

func TestCreditDebit(t *testing.T) {
	st := newTestStore(t)
	st.Initialize()

	st.Debit(decimal.NewFromInt(60000))
	assert.True(t, st.Cash().Equal(decimal.NewFromInt(40000)))

	st.Credit(decimal.NewFromInt(1000))
	assert.True(t, st.Cash().Equal(decimal.NewFromInt(41000)))
}
