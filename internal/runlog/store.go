package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// Statuses recorded for a finished run.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Run is one pipeline invocation's history record.
type Run struct {
	ID              int64
	RunID           string
	SourcePath      string
	AudioPath       string
	SubtitlePath    string
	SourceSeconds   float64
	CleanedSeconds  float64
	SegmentsTotal   int
	SegmentsDropped int
	Cues            int
	Status          string
	ErrorMessage    string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// ReductionPercent reports how much of the source was cut away.
func (r Run) ReductionPercent() float64 {
	if r.SourceSeconds <= 0 {
		return 0
	}
	return (r.SourceSeconds - r.CleanedSeconds) / r.SourceSeconds * 100
}

// Store keeps run history in a local sqlite database.
type Store struct {
	db *sql.DB
}

// Open creates (or migrates) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create runlog directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open runlog database: %w", err)
	}
	// A single writer keeps sqlite's locking simple.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply runlog schema: %w", err)
	}
	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version > schemaVersion:
		return fmt.Errorf("runlog schema version %d is newer than supported %d", version, schemaVersion)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun appends one finished run to the history.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	return s.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO runs (
				run_id, source_path, audio_path, subtitle_path,
				source_seconds, cleaned_seconds,
				segments_total, segments_dropped, cues,
				status, error_message, started_at, finished_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.SourcePath, run.AudioPath, run.SubtitlePath,
			run.SourceSeconds, run.CleanedSeconds,
			run.SegmentsTotal, run.SegmentsDropped, run.Cues,
			run.Status, run.ErrorMessage,
			run.StartedAt.UTC(), run.FinishedAt.UTC())
		return err
	})
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, source_path, audio_path, subtitle_path,
		       source_seconds, cleaned_seconds,
		       segments_total, segments_dropped, cues,
		       status, error_message, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var finished sql.NullTime
		if err := rows.Scan(
			&run.ID, &run.RunID, &run.SourcePath, &run.AudioPath, &run.SubtitlePath,
			&run.SourceSeconds, &run.CleanedSeconds,
			&run.SegmentsTotal, &run.SegmentsDropped, &run.Cues,
			&run.Status, &run.ErrorMessage, &run.StartedAt, &finished,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// withRetry re-attempts writes that lose a race for the database lock.
func (s *Store) withRetry(ctx context.Context, fn func() error) error {
	const attempts = 5
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !isBusy(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 50 * time.Millisecond):
		}
	}
	return err
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
