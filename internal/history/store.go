// Package history records past lookups in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/propfacts/internal/model"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const (
	schemaVersion      = 1
	defaultBusyTimeout = 5000 // milliseconds

	// Fixed width so timestamps sort lexically
	timeFormat = "2006-01-02T15:04:05.000000Z"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS lookups (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		query        TEXT    NOT NULL,
		provider     TEXT    NOT NULL,
		mode         TEXT    NOT NULL DEFAULT 'regex',
		result_count INTEGER NOT NULL DEFAULT 0,
		fact_count   INTEGER NOT NULL DEFAULT 0,
		facts        TEXT    NOT NULL DEFAULT '{}',
		created_at   TEXT    NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lookups_created ON lookups(created_at)`,
}

// Entry is one recorded lookup
type Entry struct {
	ID          int64         `json:"id"`
	Query       string        `json:"query"`
	Provider    string        `json:"provider"`
	Mode        string        `json:"mode"`
	ResultCount int           `json:"result_count"`
	FactCount   int           `json:"fact_count"`
	Facts       model.FactSet `json:"facts"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Store persists lookup history
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
// The database uses WAL mode and a single connection.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("history: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: set busy_timeout: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("history: create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("history: read schema version: %w", err)
	}

	if current >= schemaVersion {
		return nil
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: migrate: %w\nstatement: %s", err, stmt)
		}
	}

	if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("history: record schema version: %w", err)
	}

	return nil
}

// Record stores a completed lookup
func (s *Store) Record(ctx context.Context, report *model.Report) error {
	facts := report.Facts
	if facts == nil {
		facts = model.NewFactSet()
	}
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return fmt.Errorf("history: marshal facts: %w", err)
	}

	fetchedAt := report.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lookups (query, provider, mode, result_count, fact_count, facts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Query, report.Provider, report.Mode, len(report.Results), facts.Count(),
		string(factsJSON), fetchedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("history: record lookup: %w", err)
	}

	return nil
}

// Recent returns the n most recent lookups, newest first
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, provider, mode, result_count, fact_count, facts, created_at
		FROM lookups
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			factsJSON string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Query, &e.Provider, &e.Mode, &e.ResultCount, &e.FactCount, &factsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(factsJSON), &e.Facts); err != nil {
			return nil, fmt.Errorf("history: decode facts for %d: %w", e.ID, err)
		}
		if e.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("history: parse timestamp for %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: recent rows: %w", err)
	}

	return entries, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
