package auth

import (
	"regexp"
	"strings"
)

// Validation runs before any store call: a failed check changes no state
// and surfaces inline.

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	letterDigitPair = regexp.MustCompile(`^(.*[a-zA-Z].*\d.*|.*\d.*[a-zA-Z].*)$`)
)

// ValidationError carries the field that failed so forms can highlight it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateEmail checks the address shape used across every form.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

// ValidatePassword requires at least 6 characters with a letter and a
// digit.
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if len(password) < 6 {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters long"}
	}
	if !letterDigitPair.MatchString(password) {
		return &ValidationError{Field: "password", Message: "Password must contain at least one letter and one number"}
	}
	return nil
}

// ValidateName requires a trimmed length of at least 2.
func ValidateName(name, field string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	if len(trimmed) < 2 {
		return &ValidationError{Field: field, Message: field + " must be at least 2 characters long"}
	}
	return nil
}

// ValidateSignup runs all signup checks in form order, stopping at the
// first failure.
func ValidateSignup(req SignupRequest) error {
	if err := ValidateName(req.FirstName, "First name"); err != nil {
		return err
	}
	if err := ValidateName(req.LastName, "Last name"); err != nil {
		return err
	}
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	return ValidatePassword(req.Password)
}
