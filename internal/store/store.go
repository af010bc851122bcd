// Package store provides SQLite persistence for users, entries, and the
// per-module rows that hang off them (tasks, remember items, journal
// entries, calendar events).
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Store manages all Daybook persistence.
type Store struct {
	db *sql.DB
}

// New creates a store using the given database path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewWithDB creates a store using an existing database connection.
func NewWithDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			api_key_hash TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			input_kind TEXT NOT NULL DEFAULT 'text',
			raw_text TEXT,
			image_description TEXT,
			description TEXT,
			title TEXT,
			module TEXT NOT NULL DEFAULT 'memo',
			payload_json TEXT,
			created_at TEXT NOT NULL,
			deleted_at TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_entries_user ON entries(user_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_entries_module ON entries(module);

		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id INTEGER NOT NULL REFERENCES entries(id),
			description TEXT NOT NULL,
			group_name TEXT NOT NULL DEFAULT 'General',
			priority TEXT NOT NULL DEFAULT 'this_week',
			status TEXT NOT NULL DEFAULT 'open',
			due_at TEXT,
			completed_at TEXT,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
		CREATE INDEX IF NOT EXISTS idx_tasks_group ON tasks(group_name);

		CREATE TABLE IF NOT EXISTS remember_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id INTEGER NOT NULL REFERENCES entries(id),
			content TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'General',
			tags TEXT,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_remember_category ON remember_items(category);

		CREATE TABLE IF NOT EXISTS journal_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id INTEGER NOT NULL REFERENCES entries(id),
			content TEXT NOT NULL,
			activity_type TEXT,
			topic TEXT,
			logged_at TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_journal_topic ON journal_entries(topic);
		CREATE INDEX IF NOT EXISTS idx_journal_logged ON journal_entries(logged_at);

		CREATE TABLE IF NOT EXISTS calendar_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id INTEGER NOT NULL REFERENCES entries(id),
			remote_uid TEXT,
			title TEXT NOT NULL,
			start_at TEXT NOT NULL,
			end_at TEXT,
			location TEXT,
			notified INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// fmtTime and parseTime handle the RFC 3339 column convention.

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func fmtNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	return &t
}
