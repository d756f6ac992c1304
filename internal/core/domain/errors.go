package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountDeactivated    = errors.New("account is deactivated")
	ErrUserNotAuthorized     = errors.New("user not authorized")
	ErrAdminRoleRequired     = errors.New("only admins can create admin users")
	ErrCannotDeactivateAdmin = errors.New("cannot deactivate admin")
	ErrForbidden             = errors.New("access denied")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("user already exists")
	ErrLeadNotFound = errors.New("lead not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidID    = errors.New("invalid id")
)

// Token verification failures. Callers reject all of them the same way; the
// distinction only matters for logs and metrics.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// IsTokenError reports whether err is any of the token verification failures.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignatureInvalid) ||
		errors.Is(err, ErrTokenExpired)
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a payload fails validation before any
// business logic runs.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
