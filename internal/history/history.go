package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store records completed analysis and erase runs in a local sqlite database.
type Store struct {
	*sql.DB
}

type Run struct {
	ID          int64
	Kind        string
	Root        string
	StartedAt   time.Time
	Duration    time.Duration
	TotalBytes  int64
	FileCount   int64
	GroupCount  int64
	WastedBytes int64
	Failures    int64
}

const (
	RunKindAnalyze    = "analyze"
	RunKindTree       = "tree"
	RunKindDuplicates = "duplicates"
	RunKindErase      = "erase"
	RunKindDelete     = "delete"
)

func DefaultPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "scourfs", "history.db"), nil
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	store := &Store{DB: database}
	if err := store.Migrate(); err != nil {
		database.Close()
		return nil, err
	}
	return store, nil
}

func (store *Store) Migrate() error {
	_, err := store.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	row := store.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		tx, err := store.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

const migration001 = `
CREATE TABLE runs (
    id INTEGER PRIMARY KEY,
    kind TEXT NOT NULL,
    root TEXT NOT NULL,
    started_at DATETIME NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    total_bytes INTEGER NOT NULL DEFAULT 0,
    file_count INTEGER NOT NULL DEFAULT 0,
    group_count INTEGER NOT NULL DEFAULT 0,
    wasted_bytes INTEGER NOT NULL DEFAULT 0,
    failures INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX idx_runs_started_at ON runs(started_at);
`

func (store *Store) RecordRun(run Run) (int64, error) {
	result, err := store.Exec(`
		INSERT INTO runs (kind, root, started_at, duration_ms, total_bytes, file_count, group_count, wasted_bytes, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Kind, run.Root, run.StartedAt, run.Duration.Milliseconds(),
		run.TotalBytes, run.FileCount, run.GroupCount, run.WastedBytes, run.Failures,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (store *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := store.Query(`
		SELECT id, kind, root, started_at, duration_ms, total_bytes, file_count, group_count, wasted_bytes, failures
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.Kind, &run.Root, &run.StartedAt, &durationMS,
			&run.TotalBytes, &run.FileCount, &run.GroupCount, &run.WastedBytes, &run.Failures); err != nil {
			return nil, err
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune keeps the most recent limit runs and drops the rest.
func (store *Store) Prune(limit int) error {
	_, err := store.Exec(`
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
		)`, limit)
	return err
}
