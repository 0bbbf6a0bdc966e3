package db

import (
	"database/sql"
	"fmt"
)

// schemaVersion identifies the current settings-row schema (§6: "a
// versioned settings row identifies the schema").
const schemaVersion = "1"

const baseSchema = `
CREATE TABLE IF NOT EXISTS cookies (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  vendor TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT 'Unknown',
  purpose TEXT NOT NULL DEFAULT '',
  privacy TEXT NOT NULL DEFAULT 'Low',
  third_party INTEGER NOT NULL DEFAULT 0,
  typical_expiration TEXT NOT NULL DEFAULT '',
  common_domains TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  confidence REAL NOT NULL DEFAULT 0.7,
  source TEXT NOT NULL DEFAULT 'manual',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cookies_name ON cookies(name);

CREATE TABLE IF NOT EXISTS cookie_patterns (
  id INTEGER PRIMARY KEY,
  glob TEXT NOT NULL,
  cookie_id INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY (cookie_id) REFERENCES cookies(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_cookie_patterns_cookie_id ON cookie_patterns(cookie_id);

CREATE TABLE IF NOT EXISTS ai_query_cache (
  cache_key TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  domain TEXT NOT NULL,
  raw_response TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_corrections (
  id INTEGER PRIMARY KEY,
  cookie_name TEXT NOT NULL,
  field TEXT NOT NULL,
  old_value TEXT NOT NULL DEFAULT '',
  new_value TEXT NOT NULL DEFAULT '',
  corrected_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_corrections_cookie_name ON user_corrections(cookie_name);

CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`

// Migrate applies the base schema and any incremental migrations, and is
// safe to run repeatedly (every statement is IF NOT EXISTS / guarded by a
// pragma_table_info check).
func Migrate(conn *sql.DB) error {
	if _, err := conn.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(conn *sql.DB) error {
	// Migration 1: stamp the schema version row if absent.
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM settings WHERE key = 'schema_version'`).Scan(&count); err != nil {
		return fmt.Errorf("check schema_version: %w", err)
	}
	if count == 0 {
		if _, err := conn.Exec(
			`INSERT INTO settings (key, value, updated_at) VALUES ('schema_version', ?, datetime('now'))`,
			schemaVersion,
		); err != nil {
			return fmt.Errorf("insert schema_version: %w", err)
		}
	}

	// Migration 2: add a column added after the initial cut of ai_query_cache,
	// in case an older store file predates it.
	if err := addColumnIfMissing(conn, "ai_query_cache", "domain", "TEXT NOT NULL DEFAULT ''"); err != nil {
		return err
	}

	if _, err := conn.Exec(`CREATE INDEX IF NOT EXISTS idx_ai_query_cache_name_domain ON ai_query_cache(name, domain)`); err != nil {
		return fmt.Errorf("create idx_ai_query_cache_name_domain: %w", err)
	}

	return nil
}

func addColumnIfMissing(conn *sql.DB, table, column, ddl string) error {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name = '%s'`, table, column)
	if err := conn.QueryRow(query).Scan(&count); err != nil {
		return fmt.Errorf("check column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	if _, err := conn.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, ddl)); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}
