package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered identity. The password hash, refresh token and OTP
// never serialize.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Fullname     string    `json:"fullname"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Avatar       *string   `json:"avatar,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	OTP          *int      `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy with every secret field cleared.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = nil
	c.OTP = nil
	return &c
}

// Claims derives the identity claims embedded in tokens.
func (u *User) Claims() IdentityClaims {
	return IdentityClaims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}
}
