package auth

import (
	"time"

	"github.com/mambagroup/inventory-backend/internal/config"
)

// JWTValidator defines the interface for session token validation
type JWTValidator interface {
	// ValidateToken validates a session token and returns its claims if valid
	ValidateToken(tokenString string) (*CustomClaims, error)

	// GetConfig returns the JWT settings configuration
	GetConfig() *config.JWTSettings
}

// TokenIssuer creates session tokens
type TokenIssuer interface {
	JWTValidator

	// GenerateSessionToken signs a token for the user and reports its expiry
	GenerateSessionToken(userID, email string) (string, time.Time, error)
}

var _ TokenIssuer = (*JWTService)(nil)
