package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mufashe/mufashe-api/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/mufashe")
	t.Setenv("STORE_DRIVER", "")

	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("STORE_DRIVER", "postgres")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, "mufashe-api", cfg.TokenIssuer)
	require.Equal(t, []byte(testSecret), cfg.TokenSecret)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 5*time.Minute, cfg.ResourceCacheTTL)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/mufashe")

	_, err := config.Load()
	require.ErrorContains(t, err, "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "short")
	_, err = config.Load()
	require.ErrorContains(t, err, "at least 32 bytes")
}

func TestLoadMongoDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_URI", "")

	_, err := config.Load()
	require.ErrorContains(t, err, "MONGO_URI is required")

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.StoreDriverMongo, cfg.StoreDriver)
	require.Equal(t, "mufashe", cfg.MongoDatabase)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
