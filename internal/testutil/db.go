// Package testutil provides shared fixtures for package tests across
// cookieprobe: one in-memory SQLite helper instead of each _test.go file
// re-deriving its own DSN and snowflake init dance.
package testutil

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/cookieprobe/cookieprobe/internal/db"
	"github.com/cookieprobe/cookieprobe/pkg/snowflake"
)

var snowflakeOnce sync.Once

// NewTestDB opens a uniquely named in-memory SQLite database, runs every
// migration against it, and registers cleanup. snowflake is initialized
// once per test binary.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	snowflakeOnce.Do(func() {
		if err := snowflake.Init(0); err != nil {
			panic("testutil: snowflake init: " + err.Error())
		}
	})

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name(), time.Now().UnixNano())
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testutil: open test database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		conn.Close()
		t.Fatalf("testutil: migrate test database: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}
