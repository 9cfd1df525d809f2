package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrDuplicateReview    = errors.New("you have already reviewed this listing")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
	ErrInactiveListing    = errors.New("listing is not available")
)

// ValidationError reports malformed or out-of-range input, one detail per field problem.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// Invalid builds a ValidationError from the given details.
func Invalid(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}
