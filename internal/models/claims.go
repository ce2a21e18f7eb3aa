package models

import (
	"time"

	"github.com/google/uuid"
)

// IdentityClaims is the identity carried by access and refresh tokens.
type IdentityClaims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"userEmail"`
	Role   Role      `json:"userRole"`
}

// VerifiedClaims is what a successfully verified token yields.
type VerifiedClaims struct {
	IdentityClaims
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
