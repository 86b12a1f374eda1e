package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Driver         string
	Path           string
	URL            string
	MigrationsPath string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type Config struct {
	Port        string
	Environment string

	JWTSecret    string
	CursorSecret string

	Database DatabaseConfig

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	CacheEnabled bool
	RedisAddr    string

	EnforceHTTPS bool

	ServiceName    string
	ServiceVersion string
	MetricsPort    string
	OTLPEndpoint   string
	LokiURL        string
}

// Load reads the process environment (optionally seeded from a .env file)
// into an explicit Config. Components receive this by construction; nothing
// downstream reads the environment directly.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("APP_ENV", "development"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CursorSecret: getEnv("CURSOR_SECRET_KEY", "cursor-secret"),
		Database: DatabaseConfig{
			Driver:         getEnv("DATABASE_DRIVER", "sqlite3"),
			Path:           getEnv("DATABASE_PATH", "database.db"),
			URL:            os.Getenv("DATABASE_URL"),
			MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		},
		RateLimitEnabled: getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitConfigs: DefaultRateLimits(),
		CacheEnabled:     getEnv("RESPONSE_CACHE_ENABLED", "true") == "true",
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		EnforceHTTPS:     os.Getenv("ENFORCE_HTTPS") == "true",
		ServiceName:      getEnv("SERVICE_NAME", "todoboard"),
		ServiceVersion:   getEnv("SERVICE_VERSION", "1.0.0"),
		MetricsPort:      getEnv("METRICS_PORT", "9091"),
		OTLPEndpoint:     getEnv("OTLP_ENDPOINT", "localhost:4317"),
		LokiURL:          os.Getenv("LOKI_URL"),
	}

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
		cfg.EnforceHTTPS = true
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	return cfg, nil
}

func DefaultRateLimits() map[string]RateLimitConfig {
	return map[string]RateLimitConfig{
		"POST /auth/register": {
			Requests: 5,
			Window:   time.Minute,
		},
		"POST /auth/login": {
			Requests: 10,
			Window:   time.Minute,
		},
		"POST /auth/logout": {
			Requests: 10,
			Window:   time.Minute,
		},
		"default": {
			Requests: 100,
			Window:   time.Minute,
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
