package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for different failure categories
var (
	// ErrInvalidInput - request validation failed (missing message/projectId, malformed arguments)
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable - upstream configuration or availability problem (missing credential, empty model reply)
	ErrUnavailable = errors.New("service unavailable")

	// ErrRateLimited - admission ceiling exceeded for the caller's identity window
	ErrRateLimited = errors.New("rate limited")

	// ErrCycleTooLong - tool-calling loop exceeded its iteration cap without settling on text
	ErrCycleTooLong = errors.New("function calling cycle too long")

	// ErrNotFound - domain resource not found
	ErrNotFound = errors.New("not found")

	// ErrForbidden - caller does not own the referenced resource
	ErrForbidden = errors.New("forbidden")
)

// InvalidInput wraps a message as an invalid input error
func InvalidInput(message string) error {
	return wrap(message, ErrInvalidInput)
}

// Unavailable wraps a message as a service availability error
func Unavailable(message string) error {
	return wrap(message, ErrUnavailable)
}

// NotFound wraps a message as a not found error
func NotFound(message string) error {
	return wrap(message, ErrNotFound)
}

// Forbidden wraps a message as a forbidden error
func Forbidden(message string) error {
	return wrap(message, ErrForbidden)
}

// IsCategory checks if err belongs to the given sentinel category
func IsCategory(err, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

func wrap(message string, category error) error {
	return fmt.Errorf("%s: %w", message, category)
}
