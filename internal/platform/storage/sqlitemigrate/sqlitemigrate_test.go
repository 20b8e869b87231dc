package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyMigrationsRunsInOrderAndOnce(t *testing.T) {
	migrationFS := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE farms (id TEXT PRIMARY KEY);
-- +migrate Down
DROP TABLE farms;
`)},
		"0002_events.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE farm_events (id TEXT PRIMARY KEY, farm_id TEXT NOT NULL REFERENCES farms(id));
-- +migrate Down
DROP TABLE farm_events;
`)},
	}

	sqlDB := openTestDB(t)
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	// Second run is a no-op.
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("ApplyMigrations() rerun error = %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("applied migrations = %d, want 2", count)
	}

	if _, err := sqlDB.Exec("INSERT INTO farms (id) VALUES ('farm-1')"); err != nil {
		t.Fatalf("schema missing after migrate: %v", err)
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a (x INT);\n" {
		t.Fatalf("ExtractUpMigration() = %q", up)
	}

	plain := "CREATE TABLE b (y INT);"
	if got := ExtractUpMigration(plain); got != plain {
		t.Fatalf("ExtractUpMigration(no markers) = %q", got)
	}
}
