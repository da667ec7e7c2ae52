package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteKV backs the key-value contract with a SQLite metadata table.
type SQLiteKV struct {
	db *sql.DB
}

func NewSQLiteKV(path string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite kv: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`)
	if err != nil {
		return nil, fmt.Errorf("create metadata table: %w", err)
	}

	return &SQLiteKV{db: db}, nil
}

func (kv *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := kv.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, true, nil
}

func (kv *SQLiteKV) Set(key, value string) error {
	_, err := kv.db.Exec(`
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (kv *SQLiteKV) Clear() error {
	if _, err := kv.db.Exec(`DELETE FROM metadata`); err != nil {
		return fmt.Errorf("kv clear: %w", err)
	}
	return nil
}

func (kv *SQLiteKV) Close() error {
	return kv.db.Close()
}
