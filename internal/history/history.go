// Package history persists one row per archiving run in a local SQLite
// database so past runs can be listed from the CLI and the HTTP API.
package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/Coobeliues/vector-search/pkg/utils"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    project TEXT NOT NULL,
    output TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    size_bytes INTEGER NOT NULL DEFAULT 0,
    members INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Run is a single recorded archiving run.
type Run struct {
	ID         string    `json:"id"`
	Project    string    `json:"project"`
	Output     string    `json:"output"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	SizeBytes  int64     `json:"size_bytes"`
	Members    int       `json:"members"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewRunID generates a new ULID
func NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// DefaultPath returns the default database location under the user's home
// directory.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".vector-search", "history.db"), nil
}

// Store wraps the SQLite database holding run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := utils.CreateDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create history directory %q: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %q: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a run row. Transient lock errors are retried.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	// History rows carry a short failure reason, not the full error chain.
	run.Error = utils.TruncateError(run.Error, 500)

	insert := func() error {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO runs (id, project, output, status, error, size_bytes, members, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			run.ID, run.Project, run.Output, run.Status, run.Error,
			run.SizeBytes, run.Members, run.DurationMS,
			run.CreatedAt.UTC().Format(time.RFC3339Nano))
		return err
	}
	if err := utils.WithRetry(insert, isBusy); err != nil {
		return fmt.Errorf("failed to record run %q: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit of 0 returns all
// rows.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, project, output, status, error, size_bytes, members, duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Project, &r.Output, &r.Status, &r.Error,
			&r.SizeBytes, &r.Members, &r.DurationMS, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns a single run by ID, or nil when no such run exists.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var r Run
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project, output, status, error, size_bytes, members, duration_ms, created_at
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Project, &r.Output, &r.Status, &r.Error,
			&r.SizeBytes, &r.Members, &r.DurationMS, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	return &r, nil
}

// isBusy reports whether err is a transient SQLite contention error.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
