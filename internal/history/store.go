package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run describes one completed extraction.
type Run struct {
	ID          string
	PackagePath string
	Destination string
	Staging     string
	RecordCount int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Placement describes one record placed during a run.
type Placement struct {
	RunID      string
	GUID       string
	TargetPath string
	Folder     bool
}

// Store manages extraction history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    package_path TEXT NOT NULL,
    destination  TEXT NOT NULL,
    staging      TEXT NOT NULL,
    record_count INTEGER NOT NULL,
    started_at   TEXT NOT NULL,
    finished_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS placements (
    run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    guid        TEXT NOT NULL,
    target_path TEXT NOT NULL,
    folder      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS placements_guid ON placements(guid);
CREATE INDEX IF NOT EXISTS placements_run ON placements(run_id);
`

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the database.
func (s *Store) Path() string { return s.path }

// RecordRun inserts a run and its placements in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, placements []Placement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (id, package_path, destination, staging, record_count, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.PackagePath,
		run.Destination,
		run.Staging,
		run.RecordCount,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO placements (run_id, guid, target_path, folder) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare placement insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range placements {
		if _, err := stmt.ExecContext(ctx, run.ID, p.GUID, p.TargetPath, boolToInt(p.Folder)); err != nil {
			return fmt.Errorf("insert placement %s: %w", p.GUID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history transaction: %w", err)
	}
	return nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, package_path, destination, staging, record_count, started_at, finished_at
         FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by identifier. Returns (nil, nil) when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, package_path, destination, staging, record_count, started_at, finished_at
         FROM runs WHERE id = ?`,
		id,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// Placements returns the placements recorded for a run, ordered by target path.
func (s *Store) Placements(ctx context.Context, runID string) ([]Placement, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, guid, target_path, folder FROM placements
         WHERE run_id = ? ORDER BY target_path`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	defer rows.Close()

	var placements []Placement
	for rows.Next() {
		var p Placement
		var folder int
		if err := rows.Scan(&p.RunID, &p.GUID, &p.TargetPath, &folder); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		p.Folder = folder != 0
		placements = append(placements, p)
	}
	return placements, rows.Err()
}

// LatestPlacement returns the most recent placement of guid and the run that
// produced it. Both are nil when the GUID has never been placed.
func (s *Store) LatestPlacement(ctx context.Context, guid string) (*Placement, *Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT p.run_id, p.guid, p.target_path, p.folder,
                r.id, r.package_path, r.destination, r.staging, r.record_count, r.started_at, r.finished_at
         FROM placements p JOIN runs r ON r.id = p.run_id
         WHERE p.guid = ? ORDER BY r.started_at DESC LIMIT 1`,
		guid,
	)

	var p Placement
	var folder int
	var run Run
	var started, finished string
	err := row.Scan(
		&p.RunID, &p.GUID, &p.TargetPath, &folder,
		&run.ID, &run.PackagePath, &run.Destination, &run.Staging, &run.RecordCount, &started, &finished,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("lookup placement: %w", err)
	}
	p.Folder = folder != 0
	if run.StartedAt, err = parseTimestamp(started); err != nil {
		return nil, nil, err
	}
	if run.FinishedAt, err = parseTimestamp(finished); err != nil {
		return nil, nil, err
	}
	return &p, &run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var started, finished string
	if err := row.Scan(&run.ID, &run.PackagePath, &run.Destination, &run.Staging, &run.RecordCount, &started, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, sql.ErrNoRows
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if run.StartedAt, err = parseTimestamp(started); err != nil {
		return Run{}, err
	}
	if run.FinishedAt, err = parseTimestamp(finished); err != nil {
		return Run{}, err
	}
	return run, nil
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return ts, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
