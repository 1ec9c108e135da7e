package bootstrap

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/domain"
	"github.com/mufashe/mufashe-api/internal/service"
)

type countingResources struct {
	items []domain.Resource
}

func (c *countingResources) List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	return c.items, nil
}

func (c *countingResources) Count(ctx context.Context) (int64, error) {
	return int64(len(c.items)), nil
}

func (c *countingResources) CreateMany(ctx context.Context, resources []domain.Resource) error {
	c.items = append(c.items, resources...)
	return nil
}

func TestEnsureResourcesSeedsOnce(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := &countingResources{}
	svc := service.NewResourceService(repo, nil, node, zap.NewNop(), nil)

	require.NoError(t, ensureResources(context.Background(), svc, zap.NewNop()))
	require.NoError(t, ensureResources(context.Background(), svc, nil))
	require.Len(t, repo.items, 3)
}
