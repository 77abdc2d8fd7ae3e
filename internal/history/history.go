// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local SQLite ledger of generation runs: which
// identifier was generated when, with which model, and how it ended.
// Recording is best-effort; a ledger failure never blocks generation.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "history.db"

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one generation attempt.
type Run struct {
	// Identifier is the canonical company identifier.
	Identifier string `json:"identifier"`

	// Date is the generation day (YYYY-MM-DD), the cache key's date part.
	Date string `json:"date"`

	// Provider is the API provider that served the run.
	Provider string `json:"provider"`

	// Model is the model that actually answered, including fallbacks.
	Model string `json:"model"`

	// CacheHit reports whether the fact pack came from cache.
	CacheHit bool `json:"cache_hit"`

	// Status is ok or failed.
	Status string `json:"status"`

	// DurationMS is the wall-clock run time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// CreatedAt is the record timestamp (RFC 3339).
	CreatedAt string `json:"created_at"`
}

// Store manages the run ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at dir/history.db, creating the schema
// if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			identifier TEXT NOT NULL,
			date TEXT NOT NULL,
			provider TEXT,
			model TEXT,
			cache_hit INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			duration_ms INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_identifier ON runs(identifier, date)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends a run to the ledger. An empty CreatedAt is filled with the
// current time.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.CreatedAt == "" {
		run.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (identifier, date, provider, model, cache_hit, status, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Identifier, run.Date, run.Provider, run.Model, run.CacheHit, run.Status, run.DurationMS, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// returns the latest 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, date, provider, model, cache_hit, status, duration_ms, created_at
		 FROM runs ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Identifier, &r.Date, &r.Provider, &r.Model, &r.CacheHit, &r.Status, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
