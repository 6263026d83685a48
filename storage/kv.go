package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// LocalStore is a small SQLite-backed key-value store: a single flat
// namespace of string keys and values in <data_dir>/local.db.
type LocalStore struct {
	db *sql.DB
}

// NewLocalStore opens (or creates) the local key-value database.
func NewLocalStore(dataDir string) (*LocalStore, error) {
	dbPath := filepath.Join(dataDir, "local.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &LocalStore{db: db}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (ls *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS local_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := ls.db.Exec(schema)
	return err
}

// Get returns the value for key, or ("", false) if the key is absent.
func (ls *LocalStore) Get(key string) (string, bool) {
	var value string
	err := ls.db.QueryRow(`SELECT value FROM local_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// Set stores a value under key, replacing any previous value.
func (ls *LocalStore) Set(key, value string) error {
	_, err := ls.db.Exec(
		`INSERT INTO local_store (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (ls *LocalStore) Delete(keys ...string) error {
	tx, err := ls.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM local_store WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete %q: %w", key, err)
		}
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (ls *LocalStore) Close() error {
	return ls.db.Close()
}
