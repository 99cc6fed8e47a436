// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling and messaging.
// User-facing messages are informative without revealing which internal check failed.
package constants

// Error Types define the categories of errors that can occur in the application.
// These are used for internal error classification and handling.
const (
	ErrorNotFound           = "resource not found"
	ErrorUnauthorized       = "unauthorized access"
	ErrorForbidden          = "forbidden access"
	ErrorBadRequest         = "invalid request"
	ErrorInternalServer     = "internal server error"
	ErrorValidation         = "validation error"
	ErrorDuplicate          = "duplicate resource"
	ErrorInvalidCredentials = "invalid credentials"
	ErrorExpiredToken       = "expired token"
	ErrorInvalidToken       = "invalid token"
	ErrorDelivery           = "email delivery failed"
	ErrorUpload             = "upload failed"
)

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	// MsgAuthRequired is the single message returned for every rejected session.
	MsgAuthRequired = "Not authorized, please login"

	// MsgMissingRegisterFields is returned when name, email or password is absent.
	MsgMissingRegisterFields = "Please fill in all required fields"

	// MsgPasswordTooShort is returned when a password is shorter than MinPasswordLength.
	MsgPasswordTooShort = "Password must be at least 6 characters"

	// MsgInvalidEmail is returned when an email is not a well-formed address.
	MsgInvalidEmail = "Please enter a valid email"

	// MsgEmailRegistered is returned when registering an email that already exists.
	MsgEmailRegistered = "Email has already been registered"

	// MsgMissingLoginFields is returned when email or password is absent on login.
	MsgMissingLoginFields = "Please add email and password"

	// MsgUserNotFoundSignUp is returned when logging in with an unknown email.
	MsgUserNotFoundSignUp = "User not found, please sign up"

	// MsgInvalidPassword indicates that login credentials are incorrect.
	MsgInvalidPassword = "Invalid email or password"

	// MsgUserNotFound is returned when the acting user no longer exists.
	MsgUserNotFound = "User not found"

	// MsgUserDoesNotExist is returned by forgot password for an unknown email.
	MsgUserDoesNotExist = "User does not exist"

	// MsgMissingPasswords is returned when change password lacks a value.
	MsgMissingPasswords = "Please add old & new password"

	// MsgOldPasswordIncorrect is returned when the old password does not verify.
	MsgOldPasswordIncorrect = "Old password is incorrect"

	// MsgInvalidResetToken covers unknown, expired and already used reset tokens.
	MsgInvalidResetToken = "Invalid or Expired Token"

	// MsgEmailNotSent is returned when the mail transport fails.
	MsgEmailNotSent = "Email not sent, please try again"

	// MsgMissingProductFields is returned when a product lacks a required field.
	MsgMissingProductFields = "Please fill in all fields"

	// MsgProductNotFound is returned for unknown product ids.
	MsgProductNotFound = "Product not found"

	// MsgProductNotOwned is returned when a product belongs to another user.
	MsgProductNotOwned = "User not authorized"

	// MsgImageUploadFailed is returned when the image store rejects an upload.
	MsgImageUploadFailed = "Image could not be uploaded"

	// MsgInvalidImage is returned for uploads that are not images or are too large.
	MsgInvalidImage = "Please upload a valid image file"

	// MsgMissingContactFields is returned when the contact form lacks a field.
	MsgMissingContactFields = "Please add subject and message"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired indicates that the session token has expired.
	MsgTokenExpired = "Authentication token has expired"

	// MsgInvalidToken indicates that the provided token is invalid.
	MsgInvalidToken = "Invalid token"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgResourceAlreadyExists indicates a duplicate resource conflict.
	MsgResourceAlreadyExists = "A resource with the same unique identifier already exists"

	// MsgMethodNotAllowed indicates that the HTTP method is not supported for the endpoint.
	MsgMethodNotAllowed = "This method is not allowed for this resource"
)

// Success messages returned in response bodies.
const (
	MsgLogoutSuccess        = "Successfully Logged Out"
	MsgPasswordChanged      = "Password changed successfully"
	MsgResetEmailSent       = "Reset Email Sent"
	MsgPasswordResetDone    = "Password Reset Successful, Please Login."
	MsgProductDeleted       = "Product deleted successfully"
	MsgContactEmailSent     = "Email Sent Successfully"
	MsgPasswordResetSubject = "Password Reset Request"
)

// Logger Constants define values used for structured logging.
const (
	LogCategoryUser    = "user"
	LogCategoryAuth    = "auth"
	LogCategoryProduct = "product"

	LogEventLogin          = "login"
	LogEventLogout         = "logout"
	LogEventRegister       = "register"
	LogEventPasswordChange = "password_change"
	LogEventPasswordReset  = "password_reset"
	LogEventResetRequested = "password_reset_requested"
	LogEventUserUpdate     = "user_update"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
