package models

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken is a blacklisted access token. ExpiresAt is when the token
// itself stops verifying; after that the row can be pruned.
type RevokedToken struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the revoked token has outlived its own expiry.
func (rt *RevokedToken) IsExpired(now time.Time) bool {
	return !rt.ExpiresAt.IsZero() && now.After(rt.ExpiresAt)
}
