package domain

import "time"

// Field names a uniquely indexed user attribute.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// User represents an account that can log in with its email, phone, or name.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasContact reports whether the user carries an email or phone.
func (u User) HasContact() bool {
	return u.Email != "" || u.Phone != ""
}
