package dtos

import "github.com/shadiptomojumder/skb-backend/internal/models"

// ----------------------
// Requests
// ----------------------

type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Fullname string  `json:"fullname" validate:"required,min=1,max=100"`
	Password string  `json:"password" validate:"required,min=6,maxbytes=72"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=3,max=32"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ----------------------
// Responses
// ----------------------

type LoginResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}
