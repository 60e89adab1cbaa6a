package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// blobKey is the row the main snapshot lives under.
const blobKey = "app-store"

// SQLite stores one blob per key in a key-value table. Each backend value
// is bound to a single row; independent stores share a database file via
// WithKey.
type SQLite struct {
	db  *sql.DB
	key string
}

// NewSQLite opens (and if needed initializes) the database at dbPath,
// bound to the main snapshot row.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db, key: blobKey}, nil
}

// WithKey returns a backend over the same connection bound to another blob
// row. Closing either backend closes the shared connection.
func (s *SQLite) WithKey(key string) *SQLite {
	return &SQLite{db: s.db, key: key}
}

// Load implements Backend.
func (s *SQLite) Load() ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(
		"SELECT value FROM blobs WHERE key = ?",
		s.key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load blob: %w", err)
	}
	return data, true, nil
}

// Save implements Backend.
func (s *SQLite) Save(data []byte) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO blobs (key, value, updated_at) VALUES (?, ?, ?)",
		s.key, data, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save blob: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
