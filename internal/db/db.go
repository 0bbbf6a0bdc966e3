// Package db opens and migrates the classifier's embedded SQLite store: a
// single file at a platform-neutral per-user path, holding the five tables
// named in spec.md §4.3 (cookies, cookie_patterns, ai_query_cache,
// user_corrections, settings).
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// BuildDSN returns the modernc.org/sqlite DSN for path, with WAL journaling
// and foreign keys enabled so the single shared connection stays consistent
// under the classifier's concurrent workers.
func BuildDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// Open creates the parent directory if needed, opens the SQLite file at
// path, runs Migrate, and returns the live connection. The returned *sql.DB
// is safe for concurrent use by every classifier worker; modernc.org/sqlite
// and SQLite's own WAL mode serialize writers internally.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("db: create store directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", BuildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	conn.SetMaxOpenConns(1) // one physical connection; SQLite serializes writers anyway

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: migrate: %w", err)
	}

	return conn, nil
}
