package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quantlab/stocksim/journal"
	"github.com/quantlab/stocksim/market"
)

// Snapshot is the persisted unit: the cash balance, the full instrument
// mapping, and the transaction sequence. It references the live state, it
// never copies it.
type Snapshot struct {
	Balance      decimal.Decimal
	Stocks       map[string]*market.Stock
	Transactions []journal.Transaction
}

// Storage keys, one per snapshot field.
const (
	keyBalance      = "stockSimBalance"
	keyStocks       = "stockSimStocks"
	keyTransactions = "stockSimTransactions"
)

// Gateway serializes snapshots to a KV backing and reads them back,
// tolerating older snapshot formats.
type Gateway struct {
	kv KV
}

func NewGateway(kv KV) *Gateway {
	return &Gateway{kv: kv}
}

// Save writes all three snapshot fields. Writes are synchronous; after a
// nil return, Load observes exactly this snapshot.
func (g *Gateway) Save(snap Snapshot) error {
	stocks, err := json.Marshal(snap.Stocks)
	if err != nil {
		return fmt.Errorf("marshal stocks: %w", err)
	}
	txs, err := json.Marshal(snap.Transactions)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}

	if err := g.kv.Set(keyBalance, snap.Balance.String()); err != nil {
		return fmt.Errorf("save balance: %w", err)
	}
	if err := g.kv.Set(keyStocks, string(stocks)); err != nil {
		return fmt.Errorf("save stocks: %w", err)
	}
	if err := g.kv.Set(keyTransactions, string(txs)); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	return nil
}

// StateChanged lets the gateway sit directly on the engine's
// state-changed fan-out as the persistence listener.
func (g *Gateway) StateChanged(snap Snapshot) error {
	return g.Save(snap)
}

// stockRecord decodes one persisted instrument. LastPrice is a pointer so
// a snapshot written before the field existed can be told apart from a
// stored sentinel 0.
type stockRecord struct {
	Price        int64   `json:"price"`
	Quantity     int64   `json:"quantity"`
	LastPrice    *int64  `json:"lastPrice"`
	PriceHistory []int64 `json:"priceHistory"`
}

// Load reads the persisted snapshot. The second return is false when no
// usable snapshot exists and the caller should default-initialize.
// Older snapshots missing lastPrice or priceHistory are backfilled from
// the current price; a malformed transaction list degrades to an empty
// ledger rather than failing the load.
func (g *Gateway) Load() (Snapshot, bool, error) {
	rawBalance, okBalance, err := g.kv.Get(keyBalance)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load balance: %w", err)
	}
	rawStocks, okStocks, err := g.kv.Get(keyStocks)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load stocks: %w", err)
	}
	rawTxs, okTxs, err := g.kv.Get(keyTransactions)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("load transactions: %w", err)
	}
	if !okBalance || !okStocks || !okTxs {
		return Snapshot{}, false, nil
	}

	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		slog.Warn("stored balance unreadable, starting fresh", "err", err)
		return Snapshot{}, false, nil
	}

	var records map[string]*stockRecord
	if err := json.Unmarshal([]byte(rawStocks), &records); err != nil {
		slog.Warn("stored stocks unreadable, starting fresh", "err", err)
		return Snapshot{}, false, nil
	}

	stocks := make(map[string]*market.Stock, len(records))
	for name, r := range records {
		if r == nil {
			continue
		}
		s := &market.Stock{
			Price:        r.Price,
			Quantity:     r.Quantity,
			PriceHistory: r.PriceHistory,
		}
		if r.LastPrice != nil {
			s.LastPrice = *r.LastPrice
		} else {
			s.LastPrice = r.Price
		}
		if len(s.PriceHistory) == 0 {
			s.PriceHistory = []int64{r.Price}
		}
		stocks[name] = s
	}

	var txs []journal.Transaction
	if err := json.Unmarshal([]byte(rawTxs), &txs); err != nil {
		slog.Warn("stored transactions unreadable, dropping history", "err", err)
		txs = nil
	}

	return Snapshot{Balance: balance, Stocks: stocks, Transactions: txs}, true, nil
}

// Clear wipes the backing store. Used by reset before the fresh snapshot
// replaces it.
func (g *Gateway) Clear() error {
	return g.kv.Clear()
}
