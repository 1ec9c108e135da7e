package repository

import (
	"context"

	"github.com/mufashe/mufashe-api/internal/domain"
)

// UserRepository exposes persistence for user accounts. Implementations
// enforce uniqueness of name, email and phone at the storage layer.
type UserRepository interface {
	FindByField(ctx context.Context, field domain.Field, value string) (domain.User, error)
	GetByID(ctx context.Context, userID int64) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}

// ConsultationRepository stores the consultation log.
type ConsultationRepository interface {
	Create(ctx context.Context, consultation domain.Consultation) (domain.Consultation, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Consultation, error)
}

// ResourceRepository exposes the resource library.
type ResourceRepository interface {
	List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error)
	Count(ctx context.Context) (int64, error)
	CreateMany(ctx context.Context, resources []domain.Resource) error
}

// Store bundles the repositories of one backing database.
type Store struct {
	Users         UserRepository
	Consultations ConsultationRepository
	Resources     ResourceRepository
}

// ResourceCache memoizes resource listings per filter.
type ResourceCache interface {
	GetResources(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, bool, error)
	SetResources(ctx context.Context, filter domain.ResourceFilter, resources []domain.Resource) error
	InvalidateResources(ctx context.Context) error
}
