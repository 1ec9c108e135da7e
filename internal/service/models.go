package service

import (
	"time"

	"github.com/mufashe/mufashe-api/internal/domain"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput is the login payload. Identifier may be an email, phone, or name.
type LoginInput struct {
	Identifier string
	Password   string
}

// AuthResult bundles the session token with the public user view.
type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// UserView represents the public user data returned after authentication.
type UserView struct {
	ID    int64   `json:"id,string"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// UserProfile is the authenticated user's own record, without credentials.
type UserProfile struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConsultInput is a legal question submitted by a user or anonymous visitor.
type ConsultInput struct {
	Question string
	Language string
	UserID   *int64
}

// ConsultationView is a logged consultation as returned to clients.
type ConsultationView struct {
	ID        int64     `json:"id,string"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResourceView is a library entry as listed to clients.
type ResourceView struct {
	ID        int64     `json:"id,string"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Language  string    `json:"language"`
	Minutes   int       `json:"minutes"`
	CreatedAt time.Time `json:"createdAt"`
}

// SeedResult reports whether seeding inserted anything.
type SeedResult struct {
	Seeded bool
	Count  int64
}

func newUserView(user domain.User) UserView {
	return UserView{
		ID:    user.ID,
		Name:  user.Name,
		Email: optional(user.Email),
		Phone: optional(user.Phone),
	}
}

func newUserProfile(user domain.User) UserProfile {
	return UserProfile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     optional(user.Email),
		Phone:     optional(user.Phone),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func newConsultationView(c domain.Consultation) ConsultationView {
	return ConsultationView{
		ID:        c.ID,
		Question:  c.Question,
		Answer:    c.Answer,
		Language:  c.Language,
		CreatedAt: c.CreatedAt,
	}
}

func newResourceView(r domain.Resource) ResourceView {
	return ResourceView{
		ID:        r.ID,
		Title:     r.Title,
		Category:  r.Category,
		Language:  r.Language,
		Minutes:   r.Minutes,
		CreatedAt: r.CreatedAt,
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
