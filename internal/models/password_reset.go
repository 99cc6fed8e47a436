package models

import (
	"time"
)

// PasswordResetToken represents a password reset token in the database.
// Only the sha256 of the emailed secret is stored.
type PasswordResetToken struct {
	TokenHash string    `json:"-" db:"token_hash"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// IsExpired reports whether the token can no longer be used.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest defines the body of the reset endpoint. The token
// itself travels in the URL.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}
