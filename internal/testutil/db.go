package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"dbprobe/internal/storage"
)

// NewSQLiteDB creates a SQLite database file holding the given tables and
// returns the connection config pointing at it.
func NewSQLiteDB(t testing.TB, tables ...string) storage.Config {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "probe.db")

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer db.Close()

	for _, table := range tables {
		stmt := fmt.Sprintf(`CREATE TABLE %q (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			note TEXT
		)`, table)
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create table %s: %v", table, err)
		}
	}
	// An empty database has no file contents until the first write.
	if _, err := db.Exec("PRAGMA user_version = 1"); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return storage.Config{
		Driver:   storage.DriverSQLite,
		Database: dbPath,
	}
}
