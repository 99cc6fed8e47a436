package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
)

func cookieName(cfg *config.CookieSettings) string {
	if cfg == nil || cfg.Name == "" {
		return constants.SessionCookieName
	}
	return cfg.Name
}

func newSessionCookie(cfg *config.CookieSettings, value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     cookieName(cfg),
		Value:    value,
		Path:     constants.SessionCookiePath,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}

	if cfg != nil {
		cookie.Domain = cfg.Domain
		cookie.Secure = cfg.IsSecure()
		cookie.SameSite = cfg.SameSiteMode()
	}

	// Browsers drop SameSite=None cookies that are not Secure
	if cookie.SameSite == http.SameSiteNoneMode && !cookie.Secure {
		cookie.SameSite = http.SameSiteLaxMode
	}

	return cookie
}

// SetSessionCookie writes the session token as an HTTP-only cookie that
// expires together with the token.
func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, cfg *config.CookieSettings) {
	http.SetCookie(w, newSessionCookie(cfg, token, expiresAt))
}

// ClearSessionCookie overwrites the session cookie with an empty, expired value.
func ClearSessionCookie(w http.ResponseWriter, cfg *config.CookieSettings) {
	cookie := newSessionCookie(cfg, "", time.Unix(0, 0))
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

// TokenFromRequest returns the session token carried by the request. The
// cookie wins; a bearer Authorization header is accepted for API clients.
func TokenFromRequest(r *http.Request, cfg *config.CookieSettings) string {
	if cookie, err := r.Cookie(cookieName(cfg)); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get(constants.HeaderAuthorization)
	if strings.HasPrefix(authHeader, constants.BearerTokenPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, constants.BearerTokenPrefix))
	}

	return ""
}
