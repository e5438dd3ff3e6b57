// Package usecase implements the business logic for the tasks feature.
package usecase

import "errors"

var (
	// ErrTaskNotFound is returned when no task with the ID belongs to the acting user.
	ErrTaskNotFound = errors.New("task not found")

	// ErrValidation wraps input validation failures. The wrapped message is safe to return to clients.
	ErrValidation = errors.New("validation failed")
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &validationError{msg: msg}
}
