// Package history persists a record per build pass in SQLite so operators
// can see what recent builds produced without re-running them.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Build is one recorded build pass.
type Build struct {
	ID         string
	Started    time.Time
	Duration   time.Duration
	Documents  int
	Links      int
	Unresolved int
	State      string
}

// Store is a SQLite-backed build history.
type Store struct {
	db *sql.DB
}

// Open opens (and initializes) the history database. Use ":memory:" for an
// in-memory store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		links INTEGER NOT NULL,
		unresolved INTEGER NOT NULL,
		state TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one build row.
func (s *Store) Record(ctx context.Context, b Build) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started, duration_ms, documents, links, unresolved, state) VALUES (?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.Started.Unix(), b.Duration.Milliseconds(), b.Documents, b.Links, b.Unresolved, b.State,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// Recent returns up to limit builds, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started, duration_ms, documents, links, unresolved, state FROM builds ORDER BY started DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		var b Build
		var started, durationMS int64
		if err := rows.Scan(&b.ID, &started, &durationMS, &b.Documents, &b.Links, &b.Unresolved, &b.State); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		b.Started = time.Unix(started, 0)
		b.Duration = time.Duration(durationMS) * time.Millisecond
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
