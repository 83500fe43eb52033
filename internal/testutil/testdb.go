package testutil

import (
	"database/sql"
	"testing"

	"github.com/devcheck/devcheck-be/internal/database"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(database.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}
