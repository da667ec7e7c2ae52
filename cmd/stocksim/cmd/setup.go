package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quantlab/stocksim/config"
	"github.com/quantlab/stocksim/journal"
	"github.com/quantlab/stocksim/market"
	"github.com/quantlab/stocksim/sim"
	"github.com/quantlab/stocksim/store"
)

// session bundles everything a subcommand needs to talk to the
// simulation: the engine, the gateway over the configured KV backing,
// and a cleanup that closes whatever was opened.
type session struct {
	engine  *sim.Engine
	gateway *store.Gateway
	st      *market.Store
	ledger  *journal.Ledger
	close   func()
}

func openKV(cfg *config.Config) (store.KV, func(), error) {
	switch cfg.Store.Type {
	case "sqlite":
		kv, err := store.NewSQLiteKV(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	default:
		kv, err := store.NewFileKV(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() {}, nil
	}
}

func openMirror(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.File)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return nil, nil
	}
}

// openSession loads the persisted snapshot (or seeds a fresh market),
// wires the persistence listener, and attaches the optional journal
// mirror.
func openSession(cfg *config.Config) (*session, error) {
	kv, closeKV, err := openKV(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	gw := store.NewGateway(kv)

	st := market.NewStore(cfg.Market.Instruments, decimal.NewFromInt(cfg.Account.StartingBalance), nil)
	ledger := journal.NewLedger()

	snap, ok, err := gw.Load()
	if err != nil {
		closeKV()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if ok {
		st.Load(snap.Balance, snap.Stocks)
		ledger.Replace(snap.Transactions)
	} else {
		st.Initialize()
	}

	engine := sim.NewEngine(st, ledger)
	engine.AddListener(gw)

	mirror, err := openMirror(cfg)
	if err != nil {
		closeKV()
		return nil, fmt.Errorf("open journal mirror: %w", err)
	}
	cleanup := closeKV
	if mirror != nil {
		engine.SetMirror(mirror)
		cleanup = func() {
			if err := mirror.Close(); err != nil {
				slog.Warn("close journal mirror", "err", err)
			}
			closeKV()
		}
	}

	if !ok {
		// First run: make the seeded state durable right away.
		if err := gw.Save(engine.Snapshot()); err != nil {
			slog.Warn("initial save failed", "err", err)
		}
	}

	return &session{
		engine:  engine,
		gateway: gw,
		st:      st,
		ledger:  ledger,
		close:   cleanup,
	}, nil
}
