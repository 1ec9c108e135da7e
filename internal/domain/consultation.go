package domain

import "time"

// DefaultLanguage is used when a consultation or resource omits its language.
const DefaultLanguage = "English"

// Consultation is a logged legal question with the answer returned to the user.
type Consultation struct {
	ID        int64
	UserID    *int64
	Question  string
	Answer    string
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
