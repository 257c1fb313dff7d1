package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures so handlers can pick a status code without
// inspecting driver or SDK errors.
type ErrorType string

const (
	// ErrorTypeNotFound means the entity does not exist after every lookup
	// strategy was tried. It is an expected outcome, not a fault.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation means the request was rejected before any I/O.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict means a concurrent writer changed the row first.
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized means the bearer credential was missing or invalid.
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal wraps a database failure.
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal wraps an object-storage or other upstream failure.
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err's chain holds an AppError of type t.
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// IsNotFound is shorthand for IsType(err, ErrorTypeNotFound).
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}
