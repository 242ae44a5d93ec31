package types

import "time"

// Token is a persisted bearer credential. The value is an opaque random
// string; validity is decided by looking the row up and comparing
// ExpiresAt to the current server time.
type Token struct {
	ID        int       `json:"-" db:"id"`
	UserID    int       `json:"-" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}
