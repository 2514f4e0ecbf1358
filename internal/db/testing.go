package db

import "testing"

// NewTestDB returns a migrated in-memory SQLite database closed at test cleanup.
func NewTestDB(t testing.TB) *DB {
	t.Helper()
	database, err := ConnectSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}
