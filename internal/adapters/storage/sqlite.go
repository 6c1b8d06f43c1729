package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/taskpulse/internal/ports"
	"modernc.org/sqlite"
)

// sqliteStore implements ports.RecordStore with one row per record.
type sqliteStore struct {
	db *sql.DB
}

// Ensure sqliteStore implements ports.RecordStore.
var _ ports.RecordStore = (*sqliteStore)(nil)

// NewSQLite opens (or creates) a SQLite database holding the records.
func NewSQLite(dbPath string) (ports.RecordStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	store := &sqliteStore{db: db}
	if err := store.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// NewMemory creates a new in-memory SQLite store for testing.
func NewMemory() (ports.RecordStore, error) {
	return NewSQLite(":memory:")
}

// Migrate creates the database schema.
func (s *sqliteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Load decodes the named record into dst.
func (s *sqliteStore) Load(ctx context.Context, name string, dst any) error {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM records WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load record %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("failed to decode record %s: %w", name, err)
	}
	return nil
}

// Save replaces the named record with src.
func (s *sqliteStore) Save(ctx context.Context, name string, src any) error {
	body, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", name, err)
	}

	query := `
		INSERT INTO records (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, name, string(body), time.Now()); err != nil {
		if isBusyError(err) {
			return fmt.Errorf("database is locked by another process: %w", err)
		}
		return fmt.Errorf("failed to save record %s: %w", name, err)
	}
	return nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// isBusyError checks if an error is SQLITE_BUSY.
func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == 5 // SQLITE_BUSY
}
