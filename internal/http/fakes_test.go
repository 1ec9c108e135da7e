package http_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mufashe/mufashe-api/internal/domain"
	"github.com/mufashe/mufashe-api/internal/repository"
)

type memoryStore struct {
	mu            sync.Mutex
	clock         time.Time
	users         map[int64]domain.User
	consultations []domain.Consultation
	resources     []domain.Resource
	failUsers     bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users: map[int64]domain.User{},
	}
}

func (s *memoryStore) store() repository.Store {
	return repository.Store{
		Users:         memoryUsers{s},
		Consultations: memoryConsultations{s},
		Resources:     memoryResources{s},
	}
}

func (s *memoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memoryUsers struct{ s *memoryStore }

func (m memoryUsers) FindByField(ctx context.Context, field domain.Field, value string) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failUsers {
		return domain.User{}, errors.New("connection refused")
	}
	for _, user := range m.s.users {
		var got string
		switch field {
		case domain.FieldName:
			got = user.Name
		case domain.FieldEmail:
			got = user.Email
		case domain.FieldPhone:
			got = user.Phone
		}
		if got != "" && got == value {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m memoryUsers) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	user, ok := m.s.users[userID]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m memoryUsers) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.users {
		switch {
		case existing.Name == user.Name:
			return domain.User{}, &repository.DuplicateKeyError{Field: domain.FieldName}
		case user.Email != "" && existing.Email == user.Email:
			return domain.User{}, &repository.DuplicateKeyError{Field: domain.FieldEmail}
		case user.Phone != "" && existing.Phone == user.Phone:
			return domain.User{}, &repository.DuplicateKeyError{Field: domain.FieldPhone}
		}
	}
	now := m.s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	m.s.users[user.ID] = user
	return user, nil
}

type memoryConsultations struct{ s *memoryStore }

func (m memoryConsultations) Create(ctx context.Context, c domain.Consultation) (domain.Consultation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := m.s.tick()
	c.CreatedAt, c.UpdatedAt = now, now
	m.s.consultations = append(m.s.consultations, c)
	return c, nil
}

func (m memoryConsultations) ListByUser(ctx context.Context, userID int64) ([]domain.Consultation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.Consultation
	for _, c := range m.s.consultations {
		if c.UserID != nil && *c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memoryResources struct{ s *memoryStore }

func (m memoryResources) List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []domain.Resource
	for _, r := range m.s.resources {
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.Language != "" && r.Language != filter.Language {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memoryResources) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.resources)), nil
}

func (m memoryResources) CreateMany(ctx context.Context, resources []domain.Resource) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range resources {
		now := m.s.tick()
		r.CreatedAt, r.UpdatedAt = now, now
		m.s.resources = append(m.s.resources, r)
	}
	return nil
}
