package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrInvalidSchedule
	ErrConflict
	ErrStoreUnavailable
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// NewInvalidSchedule reports a malformed schedule descriptor. Surfaced to the
// caller as a validation failure, never retried.
func NewInvalidSchedule(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidSchedule,
		Message: message,
	}
}

// NewConflict reports a lost concurrency race, either on the
// (medication, scheduled_at) uniqueness constraint or on a lifecycle
// compare-and-set that found a different status than expected.
func NewConflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

// NewStoreUnavailable wraps a backing-store failure. Core operations are
// idempotent, so callers may retry the whole operation.
func NewStoreUnavailable(err error) *AppError {
	return &AppError{
		Code:    ErrStoreUnavailable,
		Message: "store unavailable",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// IsCode reports whether err is or wraps an *AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool { return IsCode(err, ErrNotFound) }

func IsConflict(err error) bool { return IsCode(err, ErrConflict) }

func IsInvalidSchedule(err error) bool { return IsCode(err, ErrInvalidSchedule) }
