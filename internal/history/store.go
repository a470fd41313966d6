package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mp4convert/internal/convert"
)

// timestampLayout is fixed-width so started_at sorts lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// Record is one persisted job result.
type Record struct {
	ID          int64
	RunID       string
	Source      string
	Destination string
	Threads     int
	Outcome     convert.Outcome
	ExitCode    int
	Error       string
	StderrTail  string
	StartedAt   time.Time
	Duration    time.Duration
}

// FromResult converts a finished job into a Record for runID.
func FromResult(runID string, result convert.Result) Record {
	rec := Record{
		RunID:       runID,
		Source:      result.Job.Source,
		Destination: result.Job.Destination,
		Threads:     result.Job.Threads,
		Outcome:     result.Outcome,
		ExitCode:    result.ExitCode,
		StderrTail:  result.StderrTail,
		StartedAt:   result.StartedAt,
		Duration:    result.Duration,
	}
	if result.Err != nil {
		rec.Error = result.Err.Error()
	}
	return rec
}

// Store manages job history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; matches the sequential batch.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add inserts rec and returns its row ID.
func (s *Store) Add(ctx context.Context, rec Record) (int64, error) {
	started := rec.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (
            run_id, source_path, destination_path, threads, outcome,
            exit_code, error_message, stderr_tail, started_at, duration_ms
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Source,
		rec.Destination,
		rec.Threads,
		string(rec.Outcome),
		rec.ExitCode,
		nullableString(rec.Error),
		nullableString(rec.StderrTail),
		started.UTC().Format(timestampLayout),
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("job id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns every record.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, run_id, source_path, destination_path, threads, outcome,
        exit_code, error_message, stderr_tail, started_at, duration_ms
        FROM jobs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ByRun returns the records of one run in insertion order.
func (s *Store) ByRun(ctx context.Context, runID string) ([]Record, error) {
	return s.query(ctx, `SELECT id, run_id, source_path, destination_path, threads, outcome,
        exit_code, error_message, stderr_tail, started_at, duration_ms
        FROM jobs WHERE run_id = ? ORDER BY id`, runID)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			outcome    string
			errMsg     sql.NullString
			stderrTail sql.NullString
			started    string
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Source, &rec.Destination, &rec.Threads, &outcome,
			&rec.ExitCode, &errMsg, &stderrTail, &started, &durationMS); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		rec.Outcome = convert.Outcome(outcome)
		rec.Error = errMsg.String
		rec.StderrTail = stderrTail.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(timestampLayout, started); err == nil {
			rec.StartedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return records, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
