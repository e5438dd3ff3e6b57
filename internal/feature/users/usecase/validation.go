package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// minPasswordLength is the minimum length of a trimmed plaintext password.
	minPasswordLength = 7
	maxNameLength     = 255
)

var validate = validator.New()

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	if name == "" {
		return invalid("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return invalid(fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return invalid("email is invalid")
	}
	return nil
}

// validatePassword checks a trimmed plaintext password.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return invalid(fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return invalid(`password cannot contain "password"`)
	}
	return nil
}

func validateAge(age int) error {
	if age < 0 {
		return invalid("age must be a positive number")
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
