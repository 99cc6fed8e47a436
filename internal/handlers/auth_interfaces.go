// Package handlers provides HTTP request handlers for the inventory API.
package handlers

import (
	"context"
	"time"

	"github.com/mambagroup/inventory-backend/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication service.
// This interface is used by the auth handlers to interact with the authentication business logic
// without being tightly coupled to the implementation.
type AuthServiceInterface interface {
	// Register creates an account and returns the profile, the session token
	// and the token expiry.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, time.Time, error)

	// Login verifies credentials and returns the profile, the session token
	// and the token expiry.
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, time.Time, error)

	// LoginStatus reports whether token is a valid session token.
	LoginStatus(token string) bool

	// GetProfile returns the public profile of the user.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// UpdateProfile changes the editable profile fields.
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error)

	// ChangePassword replaces the password after verifying the old one.
	ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error

	// RequestPasswordReset emails a single-use reset link to the account owner.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets the new password.
	ResetPassword(ctx context.Context, plainToken, password string) error
}
