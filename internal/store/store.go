package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a log that lives only as long as the Store. The harness
// uses it so scenario runs leave nothing on disk.
const MemoryPath = ":memory:"

// migration upgrades the log from version-1 to version. Statements must be
// idempotent because a fresh schema.sql may already contain their effect.
type migration struct {
	version int
	stmt    string
}

// migrations are applied in order, each in its own transaction.
var migrations = []migration{
	{1, `CREATE INDEX IF NOT EXISTS idx_checks_run_seq ON checks(run_id, seq)`},
	{2, `CREATE INDEX IF NOT EXISTS idx_checks_run_rule ON checks(run_id, rule)`},
}

// currentSchemaVersion is the user_version of a fully migrated log.
var currentSchemaVersion = migrations[len(migrations)-1].version

// Store is the certificate log: one row per run, one row per checked step.
//
// The connection pool is pinned to a single connection. SQLite allows one
// writer, and a MemoryPath database exists only on the connection that
// created it.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the log at path and brings its schema up to date.
//
// File-backed logs run in WAL mode with NORMAL sync, a 5-second busy
// timeout and foreign keys on. Opening the same path repeatedly is safe.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open certificate log %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to certificate log %s: %w", path, err)
	}

	for _, pragma := range pragmasFor(path) {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// pragmasFor skips WAL for in-memory logs, where SQLite ignores it.
func pragmasFor(path string) []string {
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if path != MemoryPath {
		pragmas = append([]string{"PRAGMA journal_mode = WAL"}, pragmas...)
	}
	return pragmas
}

// migrate creates missing tables, then applies every migration newer than
// the log's user_version.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, m.stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		// PRAGMA does not take parameters; the version is an int constant.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
	}
	return nil
}

// Close releases the connection. Closing a MemoryPath log discards it.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the path the log was opened with.
func (s *Store) Path() string { return s.path }

// Query runs a read-only statement against the log. The harness uses it
// for final_state assertions; build statements with the query package.
// Callers close the returned rows.
func (s *Store) Query(ctx context.Context, stmt string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, stmt, args...)
}

// pragma reads a single pragma value as text.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
