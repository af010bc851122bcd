package store

import (
	"fmt"
	"time"
)

// CalendarEvent records an event the calendar handler created. RemoteUID
// is the identifier the external calendar assigned, when creation there
// succeeded.
type CalendarEvent struct {
	ID        int64
	EntryID   int64
	RemoteUID string
	Title     string
	StartAt   time.Time
	EndAt     *time.Time
	Location  string
	Notified  bool
	CreatedAt time.Time
}

// CreateCalendarEvent inserts a calendar event row and fills in its ID
// and CreatedAt.
func (s *Store) CreateCalendarEvent(c *CalendarEvent) error {
	now := time.Now().UTC()

	notified := 0
	if c.Notified {
		notified = 1
	}

	res, err := s.db.Exec(`
		INSERT INTO calendar_events (entry_id, remote_uid, title, start_at, end_at, location, notified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.EntryID, nullStr(c.RemoteUID), c.Title, fmtTime(c.StartAt),
		fmtNullTime(c.EndAt), nullStr(c.Location), notified, fmtTime(now))
	if err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("calendar event id: %w", err)
	}

	c.ID = id
	c.CreatedAt = now
	return nil
}
