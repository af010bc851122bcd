package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Task priorities. Anything the classifier emits outside this set is
// normalized to PriorityThisWeek at creation time.
const (
	PriorityUrgent     = "urgent"
	PriorityDoToday    = "do_today"
	PriorityThisWeek   = "this_week"
	PriorityKeepInMind = "keep_in_mind"
)

// Task statuses.
const (
	TaskOpen = "open"
	TaskDone = "done"
)

// Task is an action item in the open/done state machine. CompletedAt is
// set exactly when Status is done.
type Task struct {
	ID          int64
	EntryID     int64
	Description string
	Group       string
	Priority    string
	Status      string
	DueAt       *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// ValidPriority reports whether p is one of the recognized priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityUrgent, PriorityDoToday, PriorityThisWeek, PriorityKeepInMind:
		return true
	}
	return false
}

// CreateTask inserts a task in the open state and fills in its ID and
// CreatedAt.
func (s *Store) CreateTask(t *Task) error {
	now := time.Now().UTC()
	if t.Status == "" {
		t.Status = TaskOpen
	}

	res, err := s.db.Exec(`
		INSERT INTO tasks (entry_id, description, group_name, priority, status, due_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.EntryID, t.Description, t.Group, t.Priority, t.Status, fmtNullTime(t.DueAt), fmtTime(now))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("task id: %w", err)
	}

	t.ID = id
	t.CreatedAt = now
	return nil
}

// OpenTasks returns all open tasks owned by the user, oldest first.
func (s *Store) OpenTasks(userID int64) ([]*Task, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.entry_id, t.description, t.group_name, t.priority,
			t.status, t.due_at, t.completed_at, t.created_at
		FROM tasks t
		JOIN entries e ON e.id = t.entry_id
		WHERE e.user_id = ? AND t.status = ?
		ORDER BY t.id
	`, userID, TaskOpen)
	if err != nil {
		return nil, fmt.Errorf("query open tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CompleteTask transitions a task to done with the given completion
// time. Completing an already-done task is a no-op.
func (s *Store) CompleteTask(id int64, at time.Time) error {
	_, err := s.db.Exec(`
		UPDATE tasks SET status = ?, completed_at = ?
		WHERE id = ? AND status = ?
	`, TaskDone, fmtTime(at), id, TaskOpen)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// TaskGroups returns the distinct task group labels for a user, in
// first-created order. This feeds the taxonomy snapshot.
func (s *Store) TaskGroups(userID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT t.group_name
		FROM tasks t
		JOIN entries e ON e.id = t.entry_id
		WHERE e.user_id = ? AND t.group_name != ''
		GROUP BY t.group_name
		ORDER BY MIN(t.id)
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query task groups: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows)
}

func scanTask(rows *sql.Rows) (*Task, error) {
	var t Task
	var due, completed sql.NullString
	var createdStr string

	err := rows.Scan(&t.ID, &t.EntryID, &t.Description, &t.Group, &t.Priority,
		&t.Status, &due, &completed, &createdStr)
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}

	t.DueAt = parseNullTime(due)
	t.CompletedAt = parseNullTime(completed)
	t.CreatedAt = parseTime(createdStr)
	return &t, nil
}

func collectLabels(rows *sql.Rows) ([]string, error) {
	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
