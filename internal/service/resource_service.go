package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mufashe/mufashe-api/internal/domain"
	"github.com/mufashe/mufashe-api/internal/repository"
	"github.com/mufashe/mufashe-api/internal/telemetry"
)

// sharedCallTimeout bounds work shared between concurrent callers once it is
// detached from the caller that started it.
const sharedCallTimeout = 30 * time.Second

// ResourceService serves the legal resource library.
type ResourceService struct {
	instrumentation
	resources repository.ResourceRepository
	cache     repository.ResourceCache
	snowflake *snowflake.Node
	group     singleflight.Group
}

// NewResourceService wires dependencies. cache and tracing may be nil.
func NewResourceService(resources repository.ResourceRepository, cache repository.ResourceCache, snowflake *snowflake.Node, logger *zap.Logger, tracing *telemetry.Provider) *ResourceService {
	return &ResourceService{
		instrumentation: newInstrumentation(logger, tracing),
		resources:       resources,
		cache:           cache,
		snowflake:       snowflake,
	}
}

// List returns resources matching filter, newest first.
func (s *ResourceService) List(ctx context.Context, filter domain.ResourceFilter) ([]ResourceView, error) {
	ctx, span := s.startSpan(ctx, "ResourceService.List")
	defer span.End()

	filter = domain.ResourceFilter{
		Category: strings.TrimSpace(filter.Category),
		Language: strings.TrimSpace(filter.Language),
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetResources(ctx, filter)
		if err != nil {
			s.log().Warn("resource cache read failed", zap.Error(err))
		} else if ok {
			return toResourceViews(cached), nil
		}
	}

	key := filter.Category + "\x00" + filter.Language
	value, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		items, err := s.resources.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetResources(ctx, filter, items); err != nil {
				s.log().Warn("resource cache write failed", zap.Error(err))
			}
		}
		return items, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return toResourceViews(value.([]domain.Resource)), nil
}

// Seed inserts the starter resources when the library is empty.
func (s *ResourceService) Seed(ctx context.Context) (*SeedResult, error) {
	ctx, span := s.startSpan(ctx, "ResourceService.Seed")
	defer span.End()

	value, err := s.shared(ctx, "seed", func(ctx context.Context) (any, error) {
		count, err := s.resources.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count resources: %w", err)
		}
		if count > 0 {
			return &SeedResult{Seeded: false, Count: count}, nil
		}

		starters := domain.StarterResources()
		for i := range starters {
			starters[i].ID = s.snowflake.Generate().Int64()
		}
		if err := s.resources.CreateMany(ctx, starters); err != nil {
			return nil, fmt.Errorf("insert resources: %w", err)
		}
		if s.cache != nil {
			if err := s.cache.InvalidateResources(ctx); err != nil {
				s.log().Warn("resource cache invalidation failed", zap.Error(err))
			}
		}
		s.audit("resources.seeded", "count", len(starters))
		return &SeedResult{Seeded: true, Count: int64(len(starters))}, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return value.(*SeedResult), nil
}

// shared runs fn once per key across concurrent callers. fn gets a context
// detached from any single caller; each caller stops waiting when its own
// context ends.
func (s *ResourceService) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		return fn(workCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func toResourceViews(items []domain.Resource) []ResourceView {
	views := make([]ResourceView, 0, len(items))
	for _, item := range items {
		views = append(views, newResourceView(item))
	}
	return views
}
