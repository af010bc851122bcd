package store

import (
	"fmt"
	"time"
)

// JournalEntry is one logged activity. LoggedAt is the processing time,
// not any date mentioned in the source text.
type JournalEntry struct {
	ID           int64
	EntryID      int64
	Content      string
	ActivityType string
	Topic        string // Empty when the activity has no topic
	LoggedAt     time.Time
	CreatedAt    time.Time
}

// CreateJournalEntry inserts a journal entry and fills in its ID and
// CreatedAt.
func (s *Store) CreateJournalEntry(j *JournalEntry) error {
	now := time.Now().UTC()
	if j.LoggedAt.IsZero() {
		j.LoggedAt = now
	}

	res, err := s.db.Exec(`
		INSERT INTO journal_entries (entry_id, content, activity_type, topic, logged_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, j.EntryID, j.Content, nullStr(j.ActivityType), nullStr(j.Topic),
		fmtTime(j.LoggedAt), fmtTime(now))
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("journal entry id: %w", err)
	}

	j.ID = id
	j.CreatedAt = now
	return nil
}

// JournalTopics returns the distinct non-empty topics for a user's
// non-deleted journal entries, in first-created order.
func (s *Store) JournalTopics(userID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT j.topic
		FROM journal_entries j
		JOIN entries e ON e.id = j.entry_id
		WHERE e.user_id = ? AND e.deleted_at IS NULL AND j.topic IS NOT NULL AND j.topic != ''
		GROUP BY j.topic
		ORDER BY MIN(j.id)
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query journal topics: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows)
}
