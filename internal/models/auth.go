package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// PasswordResetToken is a single-use token emailed to the user.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string // SHA-256 of the plain token
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
