package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application's error taxonomy.
// Handlers map each sentinel to exactly one HTTP status code:
//
//	ErrValidation      → 422 Unprocessable Entity
//	ErrConflict        → 400 Bad Request (duplicate identity on signup)
//	ErrInvalidCategory → 400 Bad Request
//	ErrNotFound        → 404 Not Found
//	ErrUnauthorized    → 401 Unauthorized
//
// Everything else is a 500 with a generic body.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrInvalidCategory = errors.New("invalid category")
	ErrUnauthorized    = errors.New("unauthorized")
)

// AppError wraps a sentinel with a human-readable message and, for
// validation failures, the offending field. Unwrap() exposes the sentinel
// so callers can classify with errors.Is instead of string matching.
type AppError struct {
	Err     error  // sentinel identifying the error class
	Message string // human-readable detail for the response body
	Field   string // optional: field that caused a validation failure
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
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

// DuplicateIdentity is returned when a signup collides with an existing
// username or email. The lookup is a single combined query, so the message
// deliberately does not reveal which of the two fields collided.
func DuplicateIdentity() *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: "Username or email already registered",
	}
}

// InvalidCategory is returned when a string does not name one of the four
// catalog categories.
func InvalidCategory(key string) *AppError {
	return &AppError{
		Err:     ErrInvalidCategory,
		Message: fmt.Sprintf("invalid category %q", key),
	}
}

// Unauthorized returns an AppError for failed authentication.
// Keep messages generic — they go straight to unauthenticated callers.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
