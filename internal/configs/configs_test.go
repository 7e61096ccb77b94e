package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.AppURL)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, LimiterMemory, cfg.RateLimitBackend)
	assert.Equal(t, "system", cfg.SystemUser)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/board")
	t.Setenv("DATABASE_AUTO_MIGRATE", "true")
	t.Setenv("BULK_WORKERS", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.AppURL)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.True(t, cfg.DatabaseAutoMigrate)
	assert.Equal(t, 8, cfg.BulkWorkers)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string][2]string{
		"bad int":          {"RATE_LIMIT_PER_MINUTE", "many"},
		"zero limit":       {"RATE_LIMIT_PER_MINUTE", "0"},
		"bad bool":         {"DATABASE_AUTO_MIGRATE", "sometimes"},
		"bad driver":       {"DATABASE_DRIVER", "mysql"},
		"postgres w/o url": {"DATABASE_DRIVER", "postgres"},
		"bad limiter":      {"RATE_LIMIT_BACKEND", "memcached"},
	}

	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
