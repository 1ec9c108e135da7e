package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mufashe/mufashe-api/internal/domain"
)

// Error kinds. Every *Error unwraps to one of them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrNotImplemented     = errors.New("not implemented")
)

// InvalidCredentialsMessage is the only message a failed login ever returns.
const InvalidCredentialsMessage = "Invalid credentials"

// Error is a client-facing failure with its HTTP status.
type Error struct {
	Kind    error
	Message string
	Field   domain.Field
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newValidationError(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg, Status: http.StatusBadRequest}
}

func newConflictError(field domain.Field) *Error {
	name := string(field)
	if name == "" {
		name = "field"
	}
	msg := strings.ToUpper(name[:1]) + name[1:] + " already exists"
	return &Error{Kind: ErrConflict, Message: msg, Field: field, Status: http.StatusConflict}
}

func newInvalidCredentialsError() *Error {
	return &Error{Kind: ErrInvalidCredentials, Message: InvalidCredentialsMessage, Status: http.StatusUnauthorized}
}

func newUnauthorizedError(msg string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: msg, Status: http.StatusUnauthorized}
}

func newNotFoundError(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg, Status: http.StatusNotFound}
}
