package store

import (
	"database/sql"
	"fmt"
	"time"
)

// User is an account that owns entries. Daybook is a single-operator
// system, but authentication still resolves the API key to a user row.
type User struct {
	ID         int64
	Email      string
	Name       string
	APIKeyHash string
	IsActive   bool
	CreatedAt  time.Time
}

// CreateUser inserts a user row. The API key must already be hashed.
func (s *Store) CreateUser(email, name, apiKeyHash string) (*User, error) {
	now := time.Now().UTC()

	res, err := s.db.Exec(`
		INSERT INTO users (email, name, api_key_hash, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)
	`, email, name, apiKeyHash, fmtTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}

	return &User{
		ID:         id,
		Email:      email,
		Name:       name,
		APIKeyHash: apiKeyHash,
		IsActive:   true,
		CreatedAt:  now,
	}, nil
}

// ActiveUsers returns all active users, oldest first.
func (s *Store) ActiveUsers() ([]*User, error) {
	rows, err := s.db.Query(`
		SELECT id, email, name, api_key_hash, is_active, created_at
		FROM users WHERE is_active = 1 ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FirstUser returns the oldest user row, or nil when none exists.
func (s *Store) FirstUser() (*User, error) {
	row := s.db.QueryRow(`
		SELECT id, email, name, api_key_hash, is_active, created_at
		FROM users ORDER BY id LIMIT 1
	`)

	var u User
	var createdStr string
	var active int
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.APIKeyHash, &active, &createdStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.IsActive = active != 0
	u.CreatedAt = parseTime(createdStr)
	return &u, nil
}

func scanUser(rows *sql.Rows) (*User, error) {
	var u User
	var createdStr string
	var active int
	if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.APIKeyHash, &active, &createdStr); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.IsActive = active != 0
	u.CreatedAt = parseTime(createdStr)
	return &u, nil
}
