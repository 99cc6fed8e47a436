// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file holds the machine-readable codes sent in error
// envelopes, the header names the middleware sets and the values of the
// security headers.
package constants

// ResponseFailure is the success flag of every error envelope.
const ResponseFailure = false

// Error codes carried in the "code" field of an error envelope.
const (
	CodeBadRequest         = "bad_request"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeInternalError      = "internal_error"
	CodeValidationError    = "validation_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeTokenExpired       = "token_expired"
	CodeTokenInvalid       = "token_invalid"
	CodeDuplicateResource  = "duplicate_resource"

	// CodeInvalidResetToken covers unknown, used and expired reset tokens alike.
	CodeInvalidResetToken = "invalid_token"

	CodeDeliveryFailed     = "delivery_failed"
	CodeServiceUnavailable = "service_unavailable"
	CodeUploadFailed       = "upload_failed"
)

// Header names.
const (
	HeaderContentType           = "Content-Type"
	HeaderAuthorization         = "Authorization"
	HeaderXRequestID            = "X-Request-ID"
	HeaderXContentTypeOptions   = "X-Content-Type-Options"
	HeaderXFrameOptions         = "X-Frame-Options"
	HeaderXXSSProtection        = "X-XSS-Protection"
	HeaderReferrerPolicy        = "Referrer-Policy"
	HeaderContentSecurityPolicy = "Content-Security-Policy"
)

// ContentTypeJSON is the media type of every API response.
const ContentTypeJSON = "application/json"

// Security header values set by middleware.SecurityHeaders.
const (
	FrameOptionsDeny           = "DENY"
	XSSProtectionModeBlock     = "1; mode=block"
	ContentTypeOptionsNoSniff  = "nosniff"
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"
	CSPDefaultSrc              = "default-src 'self'"
)
