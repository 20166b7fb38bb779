package domain

import "errors"

var (
	ErrValidation = errors.New("validation failed")

	ErrMissingToken       = errors.New("authentication token required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameTaken   = errors.New("username already exists")

	ErrItemNotFound = errors.New("inventory item not found")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError returns an error that satisfies errors.Is(err, ErrValidation).
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
