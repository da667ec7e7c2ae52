package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal mirrors transactions into a SQLite table so the trade
// history can be queried outside the simulator.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTransaction(t Transaction) error {
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(id, kind, instrument, quantity, unit_price, total, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Kind), t.Instrument, t.Quantity,
		t.UnitPrice, t.Total().String(), t.At,
	)
	return err
}

// ListTransactions returns the mirrored trades in capture order.
func (j *SQLiteJournal) ListTransactions() ([]Transaction, error) {
	rows, err := j.db.Query(`
		SELECT id, kind, instrument, quantity, unit_price, time
		FROM transactions ORDER BY time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		var kind string
		var at time.Time
		if err := rows.Scan(&t.ID, &kind, &t.Instrument, &t.Quantity, &t.UnitPrice, &at); err != nil {
			return nil, err
		}
		t.Kind = Kind(kind)
		t.At = at
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
