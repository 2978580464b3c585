package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries field-keyed messages from a rejected payload
// (mismatched password confirmation, taken username, and so on).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("validation failed: %s: %s", field, msg)
	}
	return "validation failed"
}

// RegistrationError surfaces the server's duplicate-account or invalid-input
// message verbatim.
type RegistrationError struct {
	Message string
	Fields  map[string]string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration failed: %s", e.Message)
}
