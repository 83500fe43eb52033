package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// New creates a new database connection pool with foreign keys enforced on
// every connection.
func New(path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != MemoryPath {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d (%s): %w", i+1, summary(stmt), err)
		}
	}
	return nil
}

func summary(stmt string) string {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(stmt), "\n", 2)[0])
	return strings.TrimSpace(strings.TrimSuffix(line, "("))
}

// Timestamps are stored as UTC RFC3339 text with a fixed nine-digit fraction.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_staff INTEGER NOT NULL DEFAULT 0,
		date_joined TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		link TEXT,
		image TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id)`,

	`CREATE TABLE IF NOT EXISTS pages (
		id TEXT NOT NULL PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0 CHECK (sort_order >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_project ON pages(project_id)`,

	`CREATE TABLE IF NOT EXISTS sections (
		id TEXT NOT NULL PRIMARY KEY,
		page_id TEXT NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
		title TEXT NOT NULL CHECK (title IN ('MVP', 'DEV', 'DEPLOY')),
		sort_order INTEGER NOT NULL DEFAULT 0 CHECK (sort_order >= 0),
		UNIQUE (page_id, title)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT NOT NULL PRIMARY KEY,
		section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0 CHECK (sort_order >= 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_section ON tasks(section_id)`,

	`CREATE TABLE IF NOT EXISTS issues (
		id TEXT NOT NULL PRIMARY KEY,
		description TEXT NOT NULL,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date_submitted TEXT NOT NULL
	)`,
}
