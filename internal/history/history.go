// Package history records interpreter runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// MaxOutput caps the stored output of a single run.
const MaxOutput = 64 << 10

// ErrNotFound is returned by Get for unknown run IDs.
var ErrNotFound = errors.New("run not found")

// Run is one finished interpreter run.
type Run struct {
	ID        string
	Script    string // path of the buffer that was run, or its tab name
	StartedAt time.Time
	Duration  time.Duration
	ExitCode  int
	Output    string
	Error     string // launch failure or cancellation, empty on a normal exit
}

// Store persists runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and migrates it.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (uint, error) {
	return schemaVersion(ctx, s.db)
}

// Record inserts run. Output beyond MaxOutput is truncated.
func (s *Store) Record(ctx context.Context, run Run) error {
	output := run.Output
	if len(output) > MaxOutput {
		output = output[len(output)-MaxOutput:]
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, script, started_at, duration_ms, exit_code, output, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Script, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(),
		run.ExitCode, output, run.Error,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", run.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, script, started_at, duration_ms, exit_code, output, error FROM runs`

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run        Run
		startedMs  int64
		durationMs int64
	)
	if err := row.Scan(&run.ID, &run.Script, &startedMs, &durationMs, &run.ExitCode, &run.Output, &run.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	run.StartedAt = time.UnixMilli(startedMs)
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return run, nil
}
