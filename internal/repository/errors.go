package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mufashe/mufashe-api/internal/domain"
)

// ErrNotFound signals that no record matched the lookup.
var ErrNotFound = errors.New("repository: not found")

// ErrMissingContact rejects a user with neither email nor phone.
var ErrMissingContact = errors.New("repository: user needs an email or phone")

// DuplicateKeyError reports a unique index violation on Field.
type DuplicateKeyError struct {
	Field domain.Field
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("repository: duplicate %s: %v", e.Field, e.Err)
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// Unique index names shared by every backend.
const (
	usersNameIndex  = "users_name_key"
	usersEmailIndex = "users_email_key"
	usersPhoneIndex = "users_phone_key"
)

// fieldFromIndex maps a violated index or constraint name back to its field.
func fieldFromIndex(name string) domain.Field {
	switch {
	case strings.Contains(name, usersEmailIndex):
		return domain.FieldEmail
	case strings.Contains(name, usersPhoneIndex):
		return domain.FieldPhone
	case strings.Contains(name, usersNameIndex):
		return domain.FieldName
	}
	return ""
}

func userColumn(field domain.Field) (string, error) {
	switch field {
	case domain.FieldEmail, domain.FieldPhone, domain.FieldName:
		return string(field), nil
	}
	return "", fmt.Errorf("repository: unsupported lookup field %q", field)
}
