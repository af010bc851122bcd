package store

import (
	"fmt"
	"time"
)

// RememberItem is a categorized fact the user asked to keep. Tags are
// stored as a flat comma-joined string.
type RememberItem struct {
	ID        int64
	EntryID   int64
	Content   string
	Category  string
	Tags      string
	CreatedAt time.Time
}

// CreateRememberItem inserts a remember item and fills in its ID and
// CreatedAt.
func (s *Store) CreateRememberItem(r *RememberItem) error {
	now := time.Now().UTC()

	res, err := s.db.Exec(`
		INSERT INTO remember_items (entry_id, content, category, tags, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.EntryID, r.Content, r.Category, nullStr(r.Tags), fmtTime(now))
	if err != nil {
		return fmt.Errorf("insert remember item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("remember item id: %w", err)
	}

	r.ID = id
	r.CreatedAt = now
	return nil
}

// RememberCategories returns the distinct categories for a user's
// non-deleted remember items, in first-created order.
func (s *Store) RememberCategories(userID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT r.category
		FROM remember_items r
		JOIN entries e ON e.id = r.entry_id
		WHERE e.user_id = ? AND e.deleted_at IS NULL AND r.category != ''
		GROUP BY r.category
		ORDER BY MIN(r.id)
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query remember categories: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows)
}
