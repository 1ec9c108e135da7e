package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/config"
	"github.com/mufashe/mufashe-api/internal/service"
)

// EnsureResources seeds the starter library on start when SEED_RESOURCES is set.
func EnsureResources(lc fx.Lifecycle, cfg config.Config, resources *service.ResourceService, logger *zap.Logger) {
	if !cfg.SeedResources {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureResources(ctx, resources, logger)
		},
	})
}

func ensureResources(ctx context.Context, resources *service.ResourceService, logger *zap.Logger) error {
	result, err := resources.Seed(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap seed resources: %w", err)
	}

	if logger != nil {
		logger.Info("bootstrap resources checked",
			zap.Bool("seeded", result.Seeded),
			zap.Int64("count", result.Count),
		)
	}
	return nil
}
