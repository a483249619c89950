package models

import "errors"

// Error taxonomy shared by the services and the API layer. Raise sites wrap
// these with context via fmt.Errorf("...: %w", Err...), callers match with
// errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state transition")
	ErrOTPMismatch    = errors.New("otp mismatch")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrValidation     = errors.New("validation failed")
)
