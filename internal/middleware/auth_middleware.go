// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"

	"github.com/mambagroup/inventory-backend/internal/auth"
	"github.com/mambagroup/inventory-backend/internal/config"
)

// RequireUser is a middleware that requires a valid session whose user still
// exists. The session is read from the cookie, or from a bearer header.
func RequireUser(users auth.UserLoader, jwtService auth.JWTValidator, cookie *config.CookieSettings) func(http.Handler) http.Handler {
	provider := auth.NewJWTAuthProvider(jwtService, cookie)
	return auth.RequireAuth(users, provider)
}
