// Package auth provides authentication and authorization functionality for the inventory API.
package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for storing authenticated user information.
const (
	// UserIDContextKey is the context key for storing the authenticated user ID.
	UserIDContextKey ContextKey = constants.UserIDContextKey

	// UserContextKey is the context key for storing the resolved *models.User.
	UserContextKey ContextKey = constants.UserContextKey
)

// AuthProvider defines methods for different authentication mechanisms.
type AuthProvider interface {
	// Authenticate checks the request and returns the token claims if valid.
	Authenticate(r *http.Request) (*CustomClaims, error)
}

// UserLoader resolves the account a session belongs to.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// JWTAuthProvider implements session cookie authentication.
type JWTAuthProvider struct {
	jwtService JWTValidator
	cookie     *config.CookieSettings
}

// NewJWTAuthProvider creates a new JWTAuthProvider with the specified JWT validator.
func NewJWTAuthProvider(jwtService JWTValidator, cookie *config.CookieSettings) *JWTAuthProvider {
	return &JWTAuthProvider{
		jwtService: jwtService,
		cookie:     cookie,
	}
}

// Authenticate implements the AuthProvider interface for session tokens.
func (p *JWTAuthProvider) Authenticate(r *http.Request) (*CustomClaims, error) {
	token := TokenFromRequest(r, p.cookie)
	if token == "" {
		return nil, utils.ErrUnauthorized
	}

	return p.jwtService.ValidateToken(token)
}

// AuthMiddleware wraps an HTTP handler with authentication. The session must
// validate and its user must still exist; every failure is answered with the
// same 401 so callers cannot tell the causes apart.
func AuthMiddleware(next http.Handler, users UserLoader, provider AuthProvider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ensureRequestID(r)

		claims, err := provider.Authenticate(r)
		if err != nil {
			reject(w, r, requestID, err)
			return
		}

		user, err := users.GetByID(r.Context(), claims.UserID)
		if err != nil || user == nil {
			reject(w, r, requestID, err)
			return
		}

		logger := utils.RequestLogger(requestID, user.ID, r.Method, r.URL.Path)
		logger.Debug().Msg("User authenticated")

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func reject(w http.ResponseWriter, r *http.Request, requestID string, err error) {
	logger := utils.RequestLogger(requestID, "", r.Method, r.URL.Path)
	logger.Debug().Err(err).Msg("Authentication failed")

	utils.Unauthorized(w, constants.MsgAuthRequired)
}

func ensureRequestID(r *http.Request) string {
	requestID := r.Header.Get(constants.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
		r.Header.Set(constants.HeaderXRequestID, requestID)
	}
	return requestID
}

// RequireAuth returns the authentication middleware for use in routers.
func RequireAuth(users UserLoader, provider AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return AuthMiddleware(next, users, provider)
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, user.ID)
	return context.WithValue(ctx, UserContextKey, user)
}

// GetUserID extracts the user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}

// GetUser extracts the authenticated user from the request context.
func GetUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}
