package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/stocksim/journal"
	"github.com/quantlab/stocksim/market"
)

func newFileGateway(t *testing.T) *Gateway {
	t.Helper()
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return NewGateway(kv)
}

func sampleSnapshot() Snapshot {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return Snapshot{
		Balance: decimal.NewFromInt(40000),
		Stocks: map[string]*market.Stock{
			"Alpha": {Price: 12000, Quantity: 5, LastPrice: 11500, PriceHistory: []int64{11500, 12000}},
			"Beta":  {Price: 9000, Quantity: 0, LastPrice: 0, PriceHistory: []int64{9000}},
		},
		Transactions: []journal.Transaction{
			{
				ID:         "01TEST",
				Kind:       journal.Buy,
				Instrument: "Alpha",
				Quantity:   5,
				UnitPrice:  12000,
				At:         at,
				Timestamp:  at.Format("2006-01-02 15:04:05"),
			},
		},
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	g := newFileGateway(t)
	want := sampleSnapshot()

	require.NoError(t, g.Save(want))

	got, ok, err := g.Load()
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, got.Balance.Equal(want.Balance))
	require.Len(t, got.Stocks, 2)
	assert.Equal(t, want.Stocks["Alpha"], got.Stocks["Alpha"])
	assert.Equal(t, want.Stocks["Beta"], got.Stocks["Beta"])
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, want.Transactions[0].ID, got.Transactions[0].ID)
	assert.Equal(t, want.Transactions[0].Kind, got.Transactions[0].Kind)
	assert.Equal(t, want.Transactions[0].Timestamp, got.Transactions[0].Timestamp)
}

func TestGatewayRoundTripPreservesSentinelLastPrice(t *testing.T) {
	// A stored 0 means "no tick yet" and must not be backfilled.
	g := newFileGateway(t)
	require.NoError(t, g.Save(sampleSnapshot()))

	got, ok, err := g.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, got.Stocks["Beta"].LastPrice)
}

func TestGatewayLoadBackfillsLegacySnapshot(t *testing.T) {
	// Snapshots from before lastPrice/priceHistory existed carry only
	// price and quantity.
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	require.NoError(t, kv.Set(keyBalance, "100000"))
	require.NoError(t, kv.Set(keyStocks, `{"Alpha":{"price":12345,"quantity":2}}`))
	require.NoError(t, kv.Set(keyTransactions, `[]`))

	got, ok, err := NewGateway(kv).Load()
	require.NoError(t, err)
	require.True(t, ok)

	s := got.Stocks["Alpha"]
	require.NotNil(t, s)
	assert.Equal(t, int64(12345), s.Price)
	assert.Equal(t, int64(12345), s.LastPrice)
	assert.Equal(t, []int64{12345}, s.PriceHistory)
}

func TestGatewayLoadAbsent(t *testing.T) {
	g := newFileGateway(t)

	_, ok, err := g.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGatewayLoadPartialSnapshotIsAbsent(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	require.NoError(t, kv.Set(keyBalance, "100000"))

	_, ok, err := NewGateway(kv).Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGatewayLoadMalformedStocksDegrades(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	require.NoError(t, kv.Set(keyBalance, "100000"))
	require.NoError(t, kv.Set(keyStocks, `not json`))
	require.NoError(t, kv.Set(keyTransactions, `[]`))

	_, ok, err := NewGateway(kv).Load()
	require.NoError(t, err)
	assert.False(t, ok, "unreadable stocks degrade to a fresh start, not a failure")
}

func TestGatewayLoadMalformedTransactionsDropsHistory(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	require.NoError(t, kv.Set(keyBalance, "100000"))
	require.NoError(t, kv.Set(keyStocks, `{"Alpha":{"price":12000,"quantity":0}}`))
	require.NoError(t, kv.Set(keyTransactions, `broken`))

	got, ok, err := NewGateway(kv).Load()
	require.NoError(t, err)
	require.True(t, ok, "stocks and balance still load")
	assert.Empty(t, got.Transactions)
}

func TestGatewayClear(t *testing.T) {
	g := newFileGateway(t)
	require.NoError(t, g.Save(sampleSnapshot()))
	require.NoError(t, g.Clear())

	_, ok, err := g.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
