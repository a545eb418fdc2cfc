// Package storage provides the durable key-value store backing identity
// persistence and the ingest record log, using SQLite as the engine.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB is a SQLite-backed store. It carries the tracker's kv table and the
// ingest server's records table. Safe for concurrent use; database/sql
// serializes access to the single connection modernc.org/sqlite exposes.
type DB struct {
	db *sql.DB
}

var _ Store = (*DB)(nil)

// Open opens (creating if necessary) the SQLite database at path and applies
// the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Get returns the value stored under key, with ok=false when absent.
func (d *DB) Get(key string) (string, bool, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (d *DB) Set(key, value string) error {
	_, err := d.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (d *DB) Delete(key string) error {
	if _, err := d.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// AppendRecord appends a received payload to the records table.
func (d *DB) AppendRecord(recordType, userID, sessionID string, body []byte) error {
	_, err := d.db.Exec(
		"INSERT INTO records (type, user_id, session_id, received_at, body) VALUES (?, ?, ?, ?, ?)",
		recordType, userID, sessionID, time.Now().UTC().Format(time.RFC3339), string(body),
	)
	if err != nil {
		return fmt.Errorf("storage: append record: %w", err)
	}
	return nil
}

// CountRecords returns the number of stored records for a session.
func (d *DB) CountRecords(sessionID string) (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records WHERE session_id = ?", sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("storage: count records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}
