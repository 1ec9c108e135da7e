package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/mufashe/mufashe-api/internal/adapter/cache"
	"github.com/mufashe/mufashe-api/internal/bootstrap"
	"github.com/mufashe/mufashe-api/internal/config"
	httptransport "github.com/mufashe/mufashe-api/internal/http"
	"github.com/mufashe/mufashe-api/internal/http/handler"
	httpmiddleware "github.com/mufashe/mufashe-api/internal/http/middleware"
	"github.com/mufashe/mufashe-api/internal/jwt"
	"github.com/mufashe/mufashe-api/internal/repository"
	"github.com/mufashe/mufashe-api/internal/server"
	"github.com/mufashe/mufashe-api/internal/service"
	"github.com/mufashe/mufashe-api/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newStore,
			newUserRepository,
			newConsultationRepository,
			newResourceRepository,
			newResourceCache,
			newTokenGenerator,
			service.NewAuthService,
			service.NewConsultService,
			service.NewResourceService,
			handler.NewAuthHandler,
			handler.NewConsultHandler,
			handler.NewResourceHandler,
			newAuthMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(bootstrap.EnsureResources, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		return newMongoStore(lc, cfg, logger)
	default:
		return newPostgresStore(lc, cfg, logger)
	}
}

func newPostgresStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (repository.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repository.MigratePostgres(ctx, cfg.DatabaseURL); err != nil {
		return repository.Store{}, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return repository.Store{}, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return repository.Store{}, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	logger.Info("store ready", zap.String("driver", config.StoreDriverPostgres))
	return repository.NewPostgresStore(pool), nil
}

func newMongoStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (repository.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return repository.Store{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return repository.Store{}, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return repository.Store{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	logger.Info("store ready", zap.String("driver", config.StoreDriverMongo), zap.String("database", cfg.MongoDatabase))
	return repository.NewMongoStore(db), nil
}

func newUserRepository(store repository.Store) repository.UserRepository {
	return store.Users
}

func newConsultationRepository(store repository.Store) repository.ConsultationRepository {
	return store.Consultations
}

func newResourceRepository(store repository.Store) repository.ResourceRepository {
	return store.Resources
}

// newResourceCache returns a nil cache when REDIS_ADDR is unset.
func newResourceCache(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (repository.ResourceCache, error) {
	if cfg.RedisAddr == "" {
		logger.Info("resource cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return cacheadapter.NewRedisResourceCache(client, cfg.ResourceCacheTTL), nil
}

func newTokenGenerator(cfg config.Config) *jwt.Generator {
	return jwt.NewGenerator(cfg.TokenSecret, cfg.TokenTTL, cfg.TokenIssuer)
}

func newAuthMiddleware(authService *service.AuthService) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{AuthService: authService}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
