package domain

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("duplicate key")

	// authentication causes; the transport reports all three identically
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries a caller-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }
