// Package utils provides utility functions for the inventory API.
//
// This file contains HTTP response helpers that standardize the format of all
// API responses. Every JSON body except the login status check is wrapped in
// the Response envelope so clients can rely on a single shape.
package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/constants"
)

// Response is the standard API response structure.
type Response struct {
	Success bool        `json:"success"`         // Whether the request was successful
	Data    interface{} `json:"data,omitempty"`  // The response data (omitted for error responses)
	Error   *ErrorInfo  `json:"error,omitempty"` // Error information (omitted for successful responses)
}

// ErrorInfo contains detailed information about an error.
type ErrorInfo struct {
	Code    string            `json:"code"`              // A machine-readable error code
	Message string            `json:"message"`           // A human-readable error message
	Details map[string]string `json:"details,omitempty"` // Per-field validation messages
}

// MessageData is the payload for operations that only confirm success.
type MessageData struct {
	Message string `json:"message"`
}

// JSON sends a successful JSON response with the provided data.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code to send
//   - data: The data to include in the response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	writeJSON(w, statusCode, response)
}

// Message sends a successful response whose data is a single message.
func Message(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, MessageData{Message: message})
}

// Error sends an error response with the provided details.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code to send
//   - code: A machine-readable error code
//   - message: A human-readable error message
//   - details: Additional error details (optional)
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: constants.ResponseFailure,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	writeJSON(w, statusCode, response)
}

// ErrorCode maps an AppError onto its machine-readable code.
func ErrorCode(err *AppError) string {
	switch {
	case errors.Is(err.Err, ErrNotFound):
		return constants.CodeNotFound
	case errors.Is(err.Err, ErrBadRequest):
		return constants.CodeBadRequest
	case errors.Is(err.Err, ErrUnauthorized):
		return constants.CodeUnauthorized
	case errors.Is(err.Err, ErrForbidden):
		if err.StatusCode == http.StatusUnauthorized {
			return constants.CodeUnauthorized
		}
		return constants.CodeForbidden
	case errors.Is(err.Err, ErrValidation):
		return constants.CodeValidationError
	case errors.Is(err.Err, ErrDuplicate):
		return constants.CodeDuplicateResource
	case errors.Is(err.Err, ErrInvalidCredentials):
		return constants.CodeInvalidCredentials
	case errors.Is(err.Err, ErrExpiredToken):
		return constants.CodeTokenExpired
	case errors.Is(err.Err, ErrInvalidToken):
		return constants.CodeTokenInvalid
	case errors.Is(err.Err, ErrInvalidResetToken):
		return constants.CodeInvalidResetToken
	case errors.Is(err.Err, ErrDelivery):
		return constants.CodeDeliveryFailed
	case errors.Is(err.Err, ErrUpload):
		return constants.CodeUploadFailed
	}
	return constants.CodeInternalError
}

// ErrorFromAppError sends an error response based on an AppError.
// Server-side failures log their DevInfo, which is never sent to the client.
//
// Parameters:
//   - w: The HTTP response writer
//   - err: The AppError to convert to an HTTP response
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	if err == nil {
		err = NewInternalServerError(nil)
	}

	if err.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Int("status", err.StatusCode).
			Str("dev_info", err.DevInfo).
			Msg(err.Message)
	}

	var details map[string]string
	if len(err.Details) > 0 {
		details = make(map[string]string, len(err.Details))
		for k, v := range err.Details {
			if s, ok := v.(string); ok {
				details[k] = s
			}
		}
	} else if err.Field != "" {
		details = map[string]string{
			err.Field: err.Message,
		}
	}

	Error(w, err.StatusCode, ErrorCode(err), err.Message, details)
}

// writeJSON marshals data and writes it with the given status code.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code to send
//   - data: The data to marshal to JSON
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"success":false,"error":{"code":"internal_error","message":"Failed to generate response"}}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err = w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// Bool writes a bare JSON boolean. The login status check is the only
// endpoint that answers outside the envelope.
func Bool(w http.ResponseWriter, value bool) {
	writeJSON(w, http.StatusOK, value)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	Error(w, http.StatusUnauthorized, constants.CodeUnauthorized, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgResourceNotFound
	}
	Error(w, http.StatusNotFound, constants.CodeNotFound, message, nil)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
}
