package session

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is a server-side login record. The client only ever holds the
// opaque token; the store keeps its SHA-256 hash.
type Session struct {
	ID        string
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
