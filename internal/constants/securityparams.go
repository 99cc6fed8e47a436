package constants

// Context keys
const (
	UserIDContextKey    = "user_id"
	UserContextKey      = "user"
	EmailContextKey     = "email"
	RequestIDContextKey = "request_id"
)

// Token types
const (
	TokenTypeSession = "session"
)

// Input limits
const (
	MinPasswordLength = 6
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxBioLength      = 250
	MaxSubjectLength  = 200
)

// Session cookie
const (
	SessionCookieName = "token"
	SessionCookiePath = "/"
	SameSiteNone      = "none"
	SameSiteLax       = "lax"
	SameSiteStrict    = "strict"
)
