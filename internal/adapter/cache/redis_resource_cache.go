package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mufashe/mufashe-api/internal/domain"
	"github.com/mufashe/mufashe-api/internal/repository"
)

const resourceKeyPrefix = "resources:list:"

// RedisResourceCache implements ResourceCache backed by Redis.
type RedisResourceCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ repository.ResourceCache = (*RedisResourceCache)(nil)

// NewRedisResourceCache constructs a Redis-backed resource cache.
func NewRedisResourceCache(client redis.UniversalClient, ttl time.Duration) *RedisResourceCache {
	return &RedisResourceCache{client: client, ttl: ttl}
}

// GetResources loads a cached listing. The boolean is false on a miss.
func (c *RedisResourceCache) GetResources(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, bool, error) {
	payload, err := c.client.Get(ctx, ResourceKey(filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load resources: %w", err)
	}
	var resources []domain.Resource
	if err := json.Unmarshal(payload, &resources); err != nil {
		return nil, false, fmt.Errorf("decode resources: %w", err)
	}
	return resources, true, nil
}

// SetResources stores a listing with the configured TTL.
func (c *RedisResourceCache) SetResources(ctx context.Context, filter domain.ResourceFilter, resources []domain.Resource) error {
	payload, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("marshal resources: %w", err)
	}
	if err := c.client.Set(ctx, ResourceKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("persist resources: %w", err)
	}
	return nil
}

// InvalidateResources removes every cached listing.
func (c *RedisResourceCache) InvalidateResources(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, resourceKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("delete resources: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan resources: %w", err)
	}
	return nil
}

// ResourceKey is the cache key of a filter. Parts are trimmed and
// query-escaped, so distinct filters never share a key.
func ResourceKey(filter domain.ResourceFilter) string {
	return resourceKeyPrefix + url.Values{
		"category": {strings.TrimSpace(filter.Category)},
		"language": {strings.TrimSpace(filter.Language)},
	}.Encode()
}
