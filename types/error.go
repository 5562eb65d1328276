package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the platform.
type ErrorCode string

// Platform error codes
const (
	// ErrConfiguration marks a bad or empty roster; callers must not proceed
	// to execution.
	ErrConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrRouting marks a supervisor decision that matches no allowed token
	// after retry exhaustion. Fatal to the run.
	ErrRouting ErrorCode = "ROUTING_ERROR"
	// ErrGeneration marks an unrecoverable text-generation failure. Fatal to
	// the run once retries are exhausted.
	ErrGeneration ErrorCode = "GENERATION_ERROR"
	// ErrDesign marks an unusable roster proposal from the architect.
	ErrDesign ErrorCode = "DESIGN_ERROR"
	// ErrPersistence marks a transcript write failure. Surfaced but never
	// retroactively invalidates a turn that already executed.
	ErrPersistence ErrorCode = "PERSISTENCE_ERROR"
	// ErrTurnLimit marks a run that exceeded the configured turn bound.
	ErrTurnLimit ErrorCode = "TURN_LIMIT_EXCEEDED"
)

// Request handling error codes
const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrInternalError  ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// NewConfigurationError creates a CONFIGURATION_ERROR.
func NewConfigurationError(message string) *Error {
	return NewError(ErrConfiguration, message)
}

// NewRoutingError creates a ROUTING_ERROR.
func NewRoutingError(message string) *Error {
	return NewError(ErrRouting, message)
}

// NewGenerationError creates a GENERATION_ERROR.
func NewGenerationError(message string) *Error {
	return NewError(ErrGeneration, message)
}

// NewDesignError creates a DESIGN_ERROR.
func NewDesignError(message string) *Error {
	return NewError(ErrDesign, message)
}

// NewPersistenceError creates a PERSISTENCE_ERROR.
func NewPersistenceError(message string) *Error {
	return NewError(ErrPersistence, message)
}

// AsError extracts a *Error from err's chain, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	if e := AsError(err); e != nil {
		return e.Code == code
	}
	return false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e := AsError(err); e != nil {
		return e.Retryable
	}
	return false
}
