package state

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists ledger state in a single SQLite table keyed by
// address. Suitable for single-node deployments and durable test rigs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database handle and creates the state
// table if it does not exist yet.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSQLiteStore opens (or creates) the database file at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite state db: %w", err)
	}
	return NewSQLiteStore(db)
}

func (s *SQLiteStore) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS ledger_state (
        address TEXT PRIMARY KEY,
        value BLOB NOT NULL
    );`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Get implements Store.
func (s *SQLiteStore) Get(address string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(context.Background(),
		`SELECT value FROM ledger_state WHERE address = ?`, address).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read state at %s: %w", address, err)
	}
	return value, true, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(address string, value []byte) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO ledger_state (address, value) VALUES (?, ?)
         ON CONFLICT(address) DO UPDATE SET value = excluded.value`,
		address, value)
	if err != nil {
		return fmt.Errorf("write state at %s: %w", address, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
