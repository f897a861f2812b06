// Package store provides SQLite persistence for calorie-cli: the rolling
// two-day food log and the sealed API credential.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robertmeta/calorie-cli/model"
	_ "modernc.org/sqlite"
)

const (
	// logDocumentKey holds the whole food log as one JSON document.
	logDocumentKey = "calorie_tracker_data"
	// credentialSlot is the single slot for the API credential.
	credentialSlot = "gemini_api_key"
)

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: an in-memory database lives only as long as its
	// connection, and the log is rewritten as a whole on every mutation.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createSchema creates the database tables.
func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS secrets (
		slot TEXT PRIMARY KEY,
		nonce BLOB NOT NULL,
		ciphertext BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// loadDocument reads the food log. A missing document is an empty log.
func loadDocument(ctx context.Context, q querier) (model.DayData, error) {
	var raw string
	err := q.QueryRowContext(ctx, "SELECT value FROM documents WHERE key = ?", logDocumentKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DayData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	var data model.DayData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to decode log: %w", err)
	}
	if data == nil {
		data = model.DayData{}
	}

	return data, nil
}

// saveDocument replaces the food log with data.
func saveDocument(ctx context.Context, q querier, data model.DayData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode log: %w", err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		logDocumentKey, string(raw), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	return nil
}

// deleteDocument removes the food log entirely.
func deleteDocument(ctx context.Context, q querier) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", logDocumentKey); err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	return nil
}
