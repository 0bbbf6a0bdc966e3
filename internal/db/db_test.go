package db_test

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/cookieprobe/cookieprobe/internal/db"
)

func TestOpen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "cookieprobe-db-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "cookies.db")
	conn, err := db.Open(dbPath)
	require.NoError(t, err)
	require.NotNil(t, conn)
	defer conn.Close()

	var name string
	err = conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "cookies", name)
}

func TestBuildDSN(t *testing.T) {
	dsn := db.BuildDSN("test.db")
	require.Contains(t, dsn, "file:test.db")
	require.Contains(t, dsn, "journal_mode")
	require.Contains(t, dsn, "WAL")
	require.Contains(t, dsn, "foreign_keys")
}

func TestMigrate_ClosedDB(t *testing.T) {
	conn, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	err = db.Migrate(conn)
	require.Error(t, err)
}

func TestMigrate_CreatesAllFiveTables(t *testing.T) {
	conn, err := sql.Open("sqlite", "file::memory:?cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, db.Migrate(conn))

	for _, table := range []string{"cookies", "cookie_patterns", "ai_query_cache", "user_corrections", "settings"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoErrorf(t, err, "table %s should exist", table)
	}

	var version string
	err = conn.QueryRow(`SELECT value FROM settings WHERE key = 'schema_version'`).Scan(&version)
	require.NoError(t, err)
	require.Equal(t, "1", version)

	// Idempotent.
	require.NoError(t, db.Migrate(conn))

	var count int
	err = conn.QueryRow(`SELECT COUNT(*) FROM settings WHERE key = 'schema_version'`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCookiePatternsCascadeDelete(t *testing.T) {
	conn, err := sql.Open("sqlite", "file::memory:?cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.Migrate(conn))

	_, err = conn.Exec(`INSERT INTO cookies (id, name, created_at, updated_at) VALUES (1, '_ga', datetime('now'), datetime('now'))`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO cookie_patterns (id, glob, cookie_id, created_at) VALUES (1, '_ga_*', 1, datetime('now'))`)
	require.NoError(t, err)

	_, err = conn.Exec(`DELETE FROM cookies WHERE id = 1`)
	require.NoError(t, err)

	var count int
	err = conn.QueryRow(`SELECT COUNT(*) FROM cookie_patterns`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}
