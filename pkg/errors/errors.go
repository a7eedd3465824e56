package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found, or that the
	// caller is not allowed to see it. The two cases are deliberately
	// collapsed so a response never reveals which one occurred.
	ErrNotFound = errors.New("not found")

	// ErrMissingToken indicates no capability token cookie was present
	ErrMissingToken = errors.New("missing access token")

	// ErrInvalidToken indicates a capability token that matches no mentee
	ErrInvalidToken = errors.New("invalid access token")

	// ErrTokenExpired indicates the token cookie is past its absolute lifetime
	ErrTokenExpired = errors.New("access token cookie expired")

	// ErrUnauthenticated indicates missing or invalid mentor session
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a conflict with existing data
	ErrConflict = errors.New("conflict")

	// ErrSlotTaken indicates an availability slot was already booked
	ErrSlotTaken = errors.New("slot already scheduled")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
