package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Entry is the generic persisted record every module handler creates.
// Module-specific rows (tasks, remember items, ...) reference it by ID.
type Entry struct {
	ID               int64
	UserID           int64
	InputKind        string // "text", "audio", "image", "video"
	RawText          string
	ImageDescription string
	Description      string // Derived, human-readable description
	Title            string
	Module           string
	PayloadJSON      string // Intent payload, verbatim
	CreatedAt        time.Time
	DeletedAt        *time.Time
}

// CreateEntry inserts an entry and fills in its ID and CreatedAt.
func (s *Store) CreateEntry(e *Entry) error {
	now := time.Now().UTC()

	res, err := s.db.Exec(`
		INSERT INTO entries (user_id, input_kind, raw_text, image_description,
			description, title, module, payload_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.UserID, e.InputKind, nullStr(e.RawText), nullStr(e.ImageDescription),
		e.Description, e.Title, e.Module, nullStr(e.PayloadJSON), fmtTime(now))
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("entry id: %w", err)
	}

	e.ID = id
	e.CreatedAt = now
	return nil
}

// EntriesSince returns all non-deleted entries for a user created at or
// after the cutoff, oldest first. Used by the daily digest.
func (s *Store) EntriesSince(userID int64, cutoff time.Time) ([]*Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, input_kind, raw_text, image_description,
			description, title, module, payload_json, created_at, deleted_at
		FROM entries
		WHERE user_id = ? AND created_at >= ? AND deleted_at IS NULL
		ORDER BY created_at ASC
	`, userID, fmtTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// RecentEntries returns the most recent non-deleted entries for a user,
// newest first.
func (s *Store) RecentEntries(userID int64, limit int) ([]*Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, input_kind, raw_text, image_description,
			description, title, module, payload_json, created_at, deleted_at
		FROM entries
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (*Entry, error) {
	var e Entry
	var rawText, imageDesc, payload, deleted sql.NullString
	var createdStr string

	err := rows.Scan(&e.ID, &e.UserID, &e.InputKind, &rawText, &imageDesc,
		&e.Description, &e.Title, &e.Module, &payload, &createdStr, &deleted)
	if err != nil {
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	e.RawText = rawText.String
	e.ImageDescription = imageDesc.String
	e.PayloadJSON = payload.String
	e.CreatedAt = parseTime(createdStr)
	e.DeletedAt = parseNullTime(deleted)
	return &e, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
