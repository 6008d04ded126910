package domain

import "errors"

// Common domain errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Employee errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUsernameTaken    = errors.New("username already taken")
)

// Alert errors
var (
	ErrAlertNotFound = errors.New("sos alert not found")
)

// ValidationError carries a message fit for the client. It matches ErrInvalidInput.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a ValidationError
func Invalid(message string) error {
	return &ValidationError{Message: message}
}
