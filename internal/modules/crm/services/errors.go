package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any write
	ErrValidation = errors.New("validation error")
	// ErrPhoneTaken means another live client already uses the phone number
	ErrPhoneTaken = fmt.Errorf("%w: phone number is already registered to another client", ErrValidation)
	// ErrClientNotFound covers unknown and soft-deleted clients
	ErrClientNotFound = errors.New("client not found")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
