package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based run store.
// Use ":memory:" for in-memory storage, or a file path for persistence.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		infos INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		manifest_hash TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a run record to the history.
func (s *SQLiteStore) Append(ctx context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		return fmt.Errorf("insert run: empty run ID")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, kind, started_at, duration_ms, outcome, errors, warnings, infos, pages, manifest_hash) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Kind, rec.StartedAt.Unix(), rec.Duration.Milliseconds(),
		rec.Outcome, rec.Errors, rec.Warnings, rec.Infos, rec.Pages, rec.ManifestHash,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// Recent returns the most recent runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, started_at, duration_ms, outcome, errors, warnings, infos, pages, manifest_hash FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return s.scanRuns(rows)
}

// RecentByKind returns the most recent runs of one kind, newest first.
func (s *SQLiteStore) RecentByKind(ctx context.Context, kind string, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, started_at, duration_ms, outcome, errors, warnings, infos, pages, manifest_hash FROM runs WHERE kind = ? ORDER BY started_at DESC, id LIMIT ?",
		kind, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return s.scanRuns(rows)
}

// GetByID retrieves a single run by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, kind, started_at, duration_ms, outcome, errors, warnings, infos, pages, manifest_hash FROM runs WHERE id = ?",
		id,
	)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, ErrNotFound
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("query run: %w", err)
	}

	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var rec RunRecord
	var startedUnix, durationMS int64
	var manifestHash sql.NullString

	err := row.Scan(&rec.ID, &rec.Kind, &startedUnix, &durationMS,
		&rec.Outcome, &rec.Errors, &rec.Warnings, &rec.Infos, &rec.Pages, &manifestHash)
	if err != nil {
		return RunRecord{}, err
	}

	rec.StartedAt = time.Unix(startedUnix, 0)
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	if manifestHash.Valid {
		rec.ManifestHash = manifestHash.String
	}

	return rec, nil
}

func (s *SQLiteStore) scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	var recs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return recs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
