package models

import "time"

// RefreshToken is a server-tracked session record. The unique constraint on
// UserID in storage keeps at most one active token per user.
type RefreshToken struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
