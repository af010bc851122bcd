// Package auth authenticates API requests by hashed API key.
//
// Keys are long random strings, so a fast SHA-256 digest is used for
// storage rather than a password KDF. Comparison is constant-time.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/daybook-ai/daybook/internal/store"
)

// ErrInvalidKey is returned when no active user matches the presented
// API key, or no key was presented at all.
var ErrInvalidKey = errors.New("invalid API key")

// HashKey returns the hex SHA-256 digest stored for an API key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// VerifyKey reports whether a plain key matches a stored hash.
func VerifyKey(plain, hashed string) bool {
	return hmac.Equal([]byte(HashKey(plain)), []byte(hashed))
}

// NewKey generates a fresh random API key.
func NewKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Authenticator resolves API keys to users.
type Authenticator struct {
	store *store.Store
}

func NewAuthenticator(st *store.Store) *Authenticator {
	return &Authenticator{store: st}
}

// Authenticate returns the active user owning the key, or ErrInvalidKey.
func (a *Authenticator) Authenticate(ctx context.Context, key string) (*store.User, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	users, err := a.store.ActiveUsers()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		if VerifyKey(key, u.APIKeyHash) {
			return u, nil
		}
	}
	return nil, ErrInvalidKey
}
