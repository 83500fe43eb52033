package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	db, err := New(MemoryPath)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "second run must be a no-op")

	for _, table := range []string{"users", "projects", "pages", "sections", "tasks", "issues"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
}

func TestNew_ForeignKeysEnforced(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db))

	var enabled int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)

	_, err = db.Exec(`INSERT INTO pages (id, project_id, name) VALUES ('p1', 'missing', 'Home')`)
	assert.Error(t, err, "page without a parent project must be rejected")
}

func TestSectionTitleConstraints(t *testing.T) {
	db, err := New(MemoryPath)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db))

	stmts := []string{
		`INSERT INTO users (id, username, password_hash, date_joined) VALUES ('u1', 'ada', 'x', '2024-01-01T00:00:00Z')`,
		`INSERT INTO projects (id, owner_id, name, created_at, updated_at) VALUES ('pr1', 'u1', 'Site', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`,
		`INSERT INTO pages (id, project_id, name) VALUES ('pg1', 'pr1', 'Home')`,
		`INSERT INTO sections (id, page_id, title) VALUES ('s1', 'pg1', 'MVP')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	_, err = db.Exec(`INSERT INTO sections (id, page_id, title) VALUES ('s2', 'pg1', 'MVP')`)
	assert.Error(t, err, "duplicate title per page")

	_, err = db.Exec(`INSERT INTO sections (id, page_id, title) VALUES ('s3', 'pg1', 'QA')`)
	assert.Error(t, err, "title outside the fixed set")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS users", summary(migrations[0]))
}
