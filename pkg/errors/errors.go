package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of application errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeAuthorization ErrorType = "authorization"
	ErrorTypeSubmission    ErrorType = "submission"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeConflict      ErrorType = "conflict"
	ErrorTypeLocked        ErrorType = "locked"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeInternal      ErrorType = "internal"
)

// AccessDeniedMessage is the only message shown for allow-list failures.
const AccessDeniedMessage = "Access denied. You are not authorized to access this system."

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewAuthorizationError creates an allow-list denial. The message is
// always the generic one.
func NewAuthorizationError() *AppError {
	return &AppError{
		Type:       ErrorTypeAuthorization,
		Message:    AccessDeniedMessage,
		StatusCode: http.StatusForbidden,
	}
}

// NewSubmissionError creates a webhook delivery failure. statusCode is 0
// when the request never got a response.
func NewSubmissionError(message string, statusCode int, statusText string, internal error) *AppError {
	details := map[string]interface{}{}
	if statusCode != 0 {
		details["status_code"] = statusCode
		details["status_text"] = statusText
	}
	return &AppError{
		Type:       ErrorTypeSubmission,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Internal:   internal,
		Details:    details,
	}
}

// NewConfigurationError creates an error for missing external configuration
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
	}
}

// NewConflictError creates an error for a duplicate in-flight operation
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewLockedError creates an error for an exhausted verification session
func NewLockedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeLocked,
		Message:    message,
		StatusCode: http.StatusLocked,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// AsAppError unwraps err into an *AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Unexpected error", err)
}

// IsType reports whether err is an *AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// ErrorResponse represents the JSON error body
type ErrorResponse struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}
