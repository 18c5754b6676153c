// Package errors provides standardized error handling for the session layer.
package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCredentialsRejected ErrorCode = "CREDENTIALS_REJECTED"
	ErrCodeSessionInvalidated  ErrorCode = "SESSION_INVALIDATED"
	ErrCodeProfileFetchFailed  ErrorCode = "PROFILE_FETCH_FAILED"
	ErrCodeLogoutNotifyFailed  ErrorCode = "LOGOUT_NOTIFY_FAILED"

	ErrCodeNetworkError         ErrorCode = "NETWORK_ERROR"
	ErrCodeSerializationError   ErrorCode = "SERIALIZATION_ERROR"
	ErrCodeDeserializationError ErrorCode = "DESERIALIZATION_ERROR"
	ErrCodeResponseInvalid      ErrorCode = "RESPONSE_INVALID"
	ErrCodeHTTPRequestError     ErrorCode = "HTTP_REQUEST_ERROR"

	ErrCodeStorageReadFailed  ErrorCode = "STORAGE_READ_FAILED"
	ErrCodeStorageWriteFailed ErrorCode = "STORAGE_WRITE_FAILED"
	ErrCodeStorageClearFailed ErrorCode = "STORAGE_CLEAR_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// UserMessage returns the single string surfaced to consumers as the
// session's last error. The Details carry the server-provided text when
// one exists; the Message is the generic fallback.
func (e *StandardError) UserMessage() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// ==========================
// Error Constructors
// ==========================

// NewCredentialsRejectedError creates a non-retryable credential exchange error.
// detail is the server-provided message shown to the user; empty falls back
// to the generic login failure text.
func NewCredentialsRejectedError(detail string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialsRejected,
		Message:   "Login failed",
		Details:   detail,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionInvalidatedError marks a token the backend rejected with 401.
func NewSessionInvalidatedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionInvalidated,
		Message:   "Session is no longer valid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileFetchFailedError creates a profile fetch error for non-401 failures.
func NewProfileFetchFailedError(retryable bool) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileFetchFailed,
		Message:   "Failed to fetch user profile",
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError creates a retryable transport-level error.
func NewNetworkError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkError,
		Message:   fmt.Sprintf("Network error during %s", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSerializationError creates a non-retryable request encoding error.
func NewSerializationError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSerializationError,
		Message:   "Failed to serialize request data",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeserializationError creates a non-retryable response decoding error.
func NewDeserializationError(what string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeserializationError,
		Message:   fmt.Sprintf("Failed to decode %s", what),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseInvalidError marks a 2xx payload that failed schema validation.
func NewResponseInvalidError(what, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseInvalid,
		Message:   fmt.Sprintf("Backend returned an invalid %s payload", what),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewHTTPRequestError creates an error for request construction failures.
func NewHTTPRequestError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHTTPRequestError,
		Message:   "Failed to create HTTP request",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageError wraps a token store failure for the given operation
// ("read", "write" or "clear").
func NewStorageError(operation string, err error) *StandardError {
	code := ErrCodeStorageReadFailed
	switch operation {
	case "write":
		code = ErrCodeStorageWriteFailed
	case "clear":
		code = ErrCodeStorageClearFailed
	}
	return &StandardError{
		Code:      code,
		Message:   fmt.Sprintf("Token storage %s failed", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLogoutNotifyFailedError wraps a failed logout notification. Never
// surfaced to the user, logged only.
func NewLogoutNotifyFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLogoutNotifyFailed,
		Message:   "Logout notification failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Utility Functions
// ==========================

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsSessionInvalidated reports whether err is a backend 401 rejection.
func IsSessionInvalidated(err error) bool {
	var stdErr *StandardError
	return goerrors.As(err, &stdErr) && stdErr.Code == ErrCodeSessionInvalidated
}

// UserMessage extracts the user-facing string from any error.
func UserMessage(err error) string {
	return AsStandardError(err).UserMessage()
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CREDENTIALS") || strings.Contains(codeStr, "SESSION"):
		return "AUTH"
	case strings.Contains(codeStr, "STORAGE"):
		return "STORAGE"
	case strings.Contains(codeStr, "NETWORK") || strings.Contains(codeStr, "HTTP"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "SERIALIZATION") || strings.Contains(codeStr, "RESPONSE"):
		return "ENCODING"
	default:
		return "OTHER"
	}
}
