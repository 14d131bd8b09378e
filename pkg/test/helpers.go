package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"taskapp/internal/adapter/database/sqlite"
)

// findProjectRoot walks up from this file until go.mod appears, so tests can
// locate migrations regardless of the package they run in.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

// InitTestDB opens an in-memory database with migrations applied. The pool
// is pinned to a single connection: each sqlite :memory: connection is its
// own database, and a single connection also serializes the concurrent
// count/page reads the repository issues.
func InitTestDB() *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxOpenConns(1)

	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations")

	if err := sqlite.RunMigrations(db, migrationsPath); err != nil {
		log.Fatal(err)
	}

	return db
}

// InitTestStore wraps InitTestDB with the query builder repositories expect.
func InitTestStore() *sqlite.DB {
	return sqlite.Wrap(InitTestDB())
}

func CleanDB(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec("DELETE FROM tasks"); err != nil {
		t.Fatalf("Failed to clean tasks table: %v", err)
	}
}
