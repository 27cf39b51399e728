package common

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError. The HTTP layer maps each kind to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindInvalidCredentials
	KindUnauthenticated
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// FieldError describes a single failed input check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the error returned by services. Message is safe to show to
// clients; Err keeps the underlying cause for logs.
type AppError struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(fields []FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: "Validation Failed", Fields: fields}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg, Err: ErrorAlreadyExists}
}

// NewInvalidCredentialsError is returned by login for both an unknown email
// and a wrong password.
func NewInvalidCredentialsError() *AppError {
	return &AppError{Kind: KindInvalidCredentials, Message: "Invalid credentials", Err: ErrorUnauthorized}
}

func NewUnauthenticatedError(cause error) *AppError {
	if cause == nil {
		cause = ErrorUnauthorized
	}
	return &AppError{Kind: KindUnauthenticated, Message: "Unauthorized", Err: cause}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg, Err: ErrorNotFound}
}

func NewInternalError(cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Internal Server Error", Err: cause}
}

// KindOf reports the kind of err, or KindInternal when err carries no AppError.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
