package services

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("only admins can delete users")
	ErrUserNotFound       = errors.New("user not found")
	ErrUpload             = errors.New("failed uploading avatar")
)

// ValidationError reports the first field that failed validation. It is
// produced before any persistence or storage call happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
