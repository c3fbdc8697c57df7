// Package history keeps a durable ledger of reading runs in SQLite, one
// row per sitting, separate from the resumable session snapshot.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Run is one reading sitting, recorded when playback ends or the reader
// quits.
type Run struct {
	ID         int64
	StartedAt  time.Time
	EndedAt    time.Time
	Source     string // file path, "stdin", or "resume"
	WordsRead  int
	TotalWords int
	WPM        int
	DurationMs int64
}

// Totals aggregates the whole ledger.
type Totals struct {
	Runs      int
	WordsRead int64
	Duration  time.Duration
}

// Store wraps SQLite access for the run ledger.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			source TEXT NOT NULL,
			words_read INTEGER NOT NULL,
			total_words INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun stores a completed run and returns its id.
func (s *Store) RecordRun(ctx context.Context, run Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, ended_at, source, words_read, total_words, wpm, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		run.Source,
		run.WordsRead,
		run.TotalWords,
		run.WPM,
		run.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded.
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, source, words_read, total_words, wpm, duration_ms
		 FROM runs
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt, endedAt string
		if err := rows.Scan(&run.ID, &startedAt, &endedAt, &run.Source, &run.WordsRead, &run.TotalWords, &run.WPM, &run.DurationMs); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if run.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetTotals aggregates run count, words read and time spent reading.
func (s *Store) GetTotals(ctx context.Context) (Totals, error) {
	var t Totals
	var durationMs int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(words_read), 0), COALESCE(SUM(duration_ms), 0) FROM runs`,
	).Scan(&t.Runs, &t.WordsRead, &durationMs)
	if err != nil {
		return Totals{}, err
	}
	t.Duration = time.Duration(durationMs) * time.Millisecond
	return t, nil
}
