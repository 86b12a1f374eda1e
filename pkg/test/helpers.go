package test

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"todoboard/internal/adapter/database"
)

// findProjectRoot walks up from this file until it hits go.mod, so tests can
// locate migrations regardless of which package runs them.
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

// InitTestDB opens an in-memory sqlite database with the full schema applied.
func InitTestDB() *database.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:")

	if err != nil {
		log.Fatal(err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Fatal(err)
	}

	migrationsPath := filepath.Join(findProjectRoot(), "db", "migrations", "sqlite")

	if err := database.RunMigrations(sqlDB, "sqlite3", migrationsPath); err != nil {
		log.Fatal(err)
	}

	return database.NewFromSQL(sqlDB, "sqlite3")
}

// CleanDB truncates every application table between test cases.
func CleanDB(t *testing.T, db *database.DB) {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT IN ('sqlite_sequence', 'schema_migrations')")

	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}

	defer rows.Close()

	var tables []string

	for rows.Next() {
		var table string

		if err := rows.Scan(&table); err != nil {
			t.Fatalf("Failed to scan table name: %v", err)
		}

		tables = append(tables, table)
	}

	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating over tables: %v", err)
	}

	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}
