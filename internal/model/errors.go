package model

import (
	"errors"
	"fmt"
)

var (
	// User related errors
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicateKey = errors.New("duplicate key")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// CSRF related errors
	ErrInvalidCSRFToken = errors.New("invalid csrf token")
)

// DuplicateKeyError reports which unique column an insert collided with.
// Field is empty when the column could not be identified.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return "value must be unique"
	}
	return fmt.Sprintf("%s must be unique", e.Field)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}
