// Package identifier classifies free-form login strings as an email, a phone
// number, or a display name and normalizes them to their stored form.
package identifier

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mufashe/mufashe-api/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\+?\d+$`)
)

// Identifier is a classified, normalized login identifier.
type Identifier struct {
	Field domain.Field
	Value string
}

// Resolve classifies raw with email taking precedence over phone and phone
// over name. The caller is expected to reject blank input beforehand.
func Resolve(raw string) Identifier {
	trimmed := strings.TrimSpace(raw)
	if IsEmail(trimmed) {
		return Identifier{Field: domain.FieldEmail, Value: strings.ToLower(trimmed)}
	}
	if phone := NormalizePhone(trimmed); IsPhone(phone) {
		return Identifier{Field: domain.FieldPhone, Value: phone}
	}
	return Identifier{Field: domain.FieldName, Value: trimmed}
}

// IsEmail reports whether value has a loose email shape.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsPhone reports whether an already normalized value is digits with an
// optional leading plus.
func IsPhone(value string) bool {
	return phonePattern.MatchString(value)
}

// NormalizeEmail trims and lowercases.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizePhone drops every whitespace rune and dash.
func NormalizePhone(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

// NormalizeName trims surrounding whitespace. Case is preserved.
func NormalizeName(value string) string {
	return strings.TrimSpace(value)
}
