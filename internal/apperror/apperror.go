// Package apperror defines the application's error taxonomy.
//
// Every error a caller may need to branch on wraps one of the sentinels below,
// so `errors.Is(err, apperror.ErrNotFound)` works no matter how many layers
// added context with fmt.Errorf("...: %w", err).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrCorrupt    = errors.New("corrupt data")
)

type AppError struct {
	Err     error  // sentinel this error matches
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying error (decoder, driver, ...)
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Corrupted reports stored data under key that could not be decoded.
// The engine recovers from it by falling back to defaults; it only reaches the
// logs, never the user.
func Corrupted(key string, cause error) *AppError {
	return &AppError{
		Err:     ErrCorrupt,
		Message: fmt.Sprintf("stored value for %q is malformed: %v", key, cause),
		Field:   key,
		Cause:   cause,
	}
}
