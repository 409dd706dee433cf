// Package dbtest provides helpers for testing database code.
package dbtest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite" // Register the sqlite driver for every test that opens a database.

	"github.com/starquake/quizdesk/internal/db"
)

// URI returns the DSN of a fresh SQLite database file inside the test's temp dir.
// The file is removed together with the temp dir.
func URI(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quizdesk-test.sqlite")

	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)
}

// OpenURI opens a connection to an existing database, e.g. one created by a server under test.
// The connection is closed when the test finishes.
func OpenURI(t *testing.T, uri string) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", uri)
	if err != nil {
		t.Fatalf("error opening SQLite database %q: %v", uri, err)
	}
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("error closing SQLite database: %v", err)
		}
	})

	return conn
}

// Open opens an in-memory database connection with migrations applied.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	conn := OpenUnmigrated(t)

	if err := db.Migrate(t.Context(), conn, "sqlite"); err != nil {
		t.Fatalf("error running migrations: %v", err)
	}

	return conn
}

// OpenUnmigrated opens an in-memory database connection without migrations applied.
// The connection is closed when the test finishes.
func OpenUnmigrated(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("error opening SQLite database: %v", err)
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	if _, err := conn.ExecContext(t.Context(), "PRAGMA foreign_keys = ON;"); err != nil {
		t.Fatalf("error enabling foreign keys: %v", err)
	}
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("error closing SQLite database: %v", err)
		}
	})

	return conn
}
