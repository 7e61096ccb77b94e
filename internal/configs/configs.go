package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"

	LimiterMemory = "memory"
	LimiterRedis  = "redis"
)

type Config struct {
	AppURL                 string
	DatabaseDriver         string
	DatabaseDSN            string
	DatabaseURL            string
	DatabaseAutoMigrate    bool
	BoltPath               string
	RateLimit              int
	RateLimitBackend       string
	RedisAddr              string
	RedisKeyPrefix         string
	ShutdownTimeoutSeconds int
	LogLevel               string
	LogEncoding            string
	SystemUser             string
	BulkWorkers            int
	CORSAllowedOrigins     []string
}

func Load() (Config, error) {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	rateLimit, err := getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20)
	if err != nil {
		return Config{}, err
	}
	bulkWorkers, err := getEnvAsInt("BULK_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}
	autoMigrate, err := getEnvAsBool("DATABASE_AUTO_MIGRATE", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDriver:         strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
		DatabaseDSN:            getEnv("DATABASE_DSN", "data/tasks.db"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		DatabaseAutoMigrate:    autoMigrate,
		BoltPath:               getEnv("BOLT_PATH", "data/tasks.bolt"),
		RateLimit:              rateLimit,
		RateLimitBackend:       strings.ToLower(getEnv("RATE_LIMIT_BACKEND", LimiterMemory)),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisKeyPrefix:         getEnv("REDIS_KEY_PREFIX", "project_board:rate"),
		ShutdownTimeoutSeconds: shutdownTimeout,
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogEncoding:            getEnv("LOG_ENCODING", "json"),
		SystemUser:             getEnv("SYSTEM_USER", "system"),
		BulkWorkers:            bulkWorkers,
		CORSAllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN must not be empty for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL must not be empty for the postgres driver"))
		}
	case DriverBolt:
		if c.BoltPath == "" {
			errs = append(errs, errors.New("BOLT_PATH must not be empty for the bolt driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER %q is not one of sqlite, postgres, bolt", c.DatabaseDriver))
	}

	switch c.RateLimitBackend {
	case LimiterMemory, LimiterRedis:
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BACKEND %q is not one of memory, redis", c.RateLimitBackend))
	}

	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0"))
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0"))
	}
	if c.BulkWorkers <= 0 {
		errs = append(errs, errors.New("BULK_WORKERS must be greater than 0"))
	}
	if strings.TrimSpace(c.SystemUser) == "" {
		errs = append(errs, errors.New("SYSTEM_USER must not be empty"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %q", key, v)
		}
		return i, nil
	}
	return defaultVal, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid boolean value for %s: %q", key, v)
		}
		return b, nil
	}
	return defaultVal, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
