package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mufashe/mufashe-api/internal/domain"
	"github.com/mufashe/mufashe-api/internal/repository"
)

// memoryUserRepo keeps one unique index per field, like the real stores.
type memoryUserRepo struct {
	mu      sync.Mutex
	byID    map[int64]domain.User
	indexes map[domain.Field]map[string]int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID: map[int64]domain.User{},
		indexes: map[domain.Field]map[string]int64{
			domain.FieldName:  {},
			domain.FieldEmail: {},
			domain.FieldPhone: {},
		},
	}
}

func (m *memoryUserRepo) FindByField(ctx context.Context, field domain.Field, value string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.indexes[field][value]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return m.byID[id], nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[userID]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	values := map[domain.Field]string{
		domain.FieldName:  user.Name,
		domain.FieldEmail: user.Email,
		domain.FieldPhone: user.Phone,
	}
	for _, field := range []domain.Field{domain.FieldName, domain.FieldEmail, domain.FieldPhone} {
		if v := values[field]; v != "" {
			if _, taken := m.indexes[field][v]; taken {
				return domain.User{}, &repository.DuplicateKeyError{Field: field}
			}
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	for field, v := range values {
		if v != "" {
			m.indexes[field][v] = user.ID
		}
	}
	m.byID[user.ID] = user
	return user, nil
}

// racingUserRepo never sees existing users, so only Create can detect duplicates.
type racingUserRepo struct {
	createErr error
}

func (r *racingUserRepo) FindByField(ctx context.Context, field domain.Field, value string) (domain.User, error) {
	return domain.User{}, repository.ErrNotFound
}

func (r *racingUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	return domain.User{}, repository.ErrNotFound
}

func (r *racingUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return domain.User{}, r.createErr
}

type memoryConsultationRepo struct {
	mu    sync.Mutex
	items []domain.Consultation
	clock time.Time
}

func (m *memoryConsultationRepo) Create(ctx context.Context, c domain.Consultation) (domain.Consultation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clock.IsZero() {
		m.clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	m.clock = m.clock.Add(time.Second)
	c.CreatedAt, c.UpdatedAt = m.clock, m.clock
	m.items = append(m.items, c)
	return c, nil
}

func (m *memoryConsultationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Consultation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Consultation
	for _, item := range m.items {
		if item.UserID != nil && *item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memoryResourceRepo struct {
	mu        sync.Mutex
	items     []domain.Resource
	listCalls int
}

func (m *memoryResourceRepo) List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var out []domain.Resource
	for i := len(m.items) - 1; i >= 0; i-- {
		item := m.items[i]
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Language != "" && item.Language != filter.Language {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *memoryResourceRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

func (m *memoryResourceRepo) CreateMany(ctx context.Context, resources []domain.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, r := range resources {
		r.CreatedAt, r.UpdatedAt = now, now
		m.items = append(m.items, r)
	}
	return nil
}

// blockingResourceRepo holds List and CreateMany until release is closed or
// the call's context ends.
type blockingResourceRepo struct {
	memoryResourceRepo
	started chan struct{}
	release chan struct{}

	errMu   sync.Mutex
	callErr []error
}

func newBlockingResourceRepo() *blockingResourceRepo {
	return &blockingResourceRepo{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (b *blockingResourceRepo) wait(ctx context.Context) error {
	select {
	case b.started <- struct{}{}:
	default:
	}
	var err error
	select {
	case <-b.release:
	case <-ctx.Done():
		err = ctx.Err()
	}
	b.errMu.Lock()
	b.callErr = append(b.callErr, err)
	b.errMu.Unlock()
	return err
}

func (b *blockingResourceRepo) errs() []error {
	b.errMu.Lock()
	defer b.errMu.Unlock()
	return append([]error(nil), b.callErr...)
}

func (b *blockingResourceRepo) List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	return b.memoryResourceRepo.List(ctx, filter)
}

func (b *blockingResourceRepo) CreateMany(ctx context.Context, resources []domain.Resource) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	return b.memoryResourceRepo.CreateMany(ctx, resources)
}

func (b *blockingResourceRepo) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

type memoryResourceCache struct {
	mu          sync.Mutex
	entries     map[domain.ResourceFilter][]domain.Resource
	invalidated int
}

func newMemoryResourceCache() *memoryResourceCache {
	return &memoryResourceCache{entries: map[domain.ResourceFilter][]domain.Resource{}}
}

func (c *memoryResourceCache) GetResources(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, ok := c.entries[filter]
	return items, ok, nil
}

func (c *memoryResourceCache) SetResources(ctx context.Context, filter domain.ResourceFilter, resources []domain.Resource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[filter] = resources
	return nil
}

func (c *memoryResourceCache) InvalidateResources(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[domain.ResourceFilter][]domain.Resource{}
	c.invalidated++
	return nil
}
