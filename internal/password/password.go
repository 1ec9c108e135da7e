package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// Cost is the bcrypt work factor applied to new hashes.
	Cost = 10
	// MaxBytes is the longest password bcrypt accepts.
	MaxBytes = 72
)

// ErrTooLong is returned when the password exceeds MaxBytes.
var ErrTooLong = errors.New("password exceeds 72 bytes")

// Hash returns a salted bcrypt hash of password.
func Hash(password string) (string, error) {
	if len(password) > MaxBytes {
		return "", ErrTooLong
	}
	sum, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(sum), nil
}

// Verify checks a password against the stored bcrypt hash. A mismatch is not
// an error; a malformed hash is.
func Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt compare: %w", err)
	}
}
