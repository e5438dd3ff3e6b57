// Package usecase implements the business logic for the users feature.
package usecase

import "errors"

var (
	// ErrValidation wraps every input validation failure. The wrapped message is safe to return to clients.
	ErrValidation = errors.New("validation failed")

	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to store a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("unable to login")

	// ErrInvalidUpdates is returned when an update names a field outside the whitelist.
	ErrInvalidUpdates = errors.New("invalid updates")

	// ErrAvatarNotFound is returned when the user has no avatar stored.
	ErrAvatarNotFound = errors.New("avatar not found")

	// ErrInvalidAvatar wraps avatar upload rejections. The wrapped message is safe to return to clients.
	ErrInvalidAvatar = errors.New("invalid avatar")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")
)

// validationError keeps the client-facing message while matching ErrValidation.
type validationError struct {
	sentinel error
	msg      string
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return e.sentinel }

func invalid(msg string) error {
	return &validationError{sentinel: ErrValidation, msg: msg}
}

func invalidAvatar(msg string) error {
	return &validationError{sentinel: ErrInvalidAvatar, msg: msg}
}
