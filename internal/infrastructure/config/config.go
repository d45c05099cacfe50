package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	DBDriver    string
	DBMigrate   bool
	JWTSecret   string
	TokenTTL    time.Duration
	LogLevel    string
	CORSOrigins string
}

// UsesDatabase reports whether a PostgreSQL store is configured. Without one
// the service runs on in-memory stores.
func (c Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:        withDefault(getenv("MOOD_ADDR"), ":8080"),
		DatabaseURL: strings.TrimSpace(getenv("DATABASE_URL")),
		DBDriver:    withDefault(getenv("DB_DRIVER"), "pgx"),
		JWTSecret:   getenv("JWT_SECRET"),
		LogLevel:    withDefault(getenv("LOG_LEVEL"), "info"),
		CORSOrigins: withDefault(getenv("CORS_ORIGINS"), "*"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}

	switch cfg.DBDriver {
	case "pgx", "postgres":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", cfg.DBDriver)
	}

	ttl, err := time.ParseDuration(withDefault(getenv("TOKEN_TTL"), "72h"))
	if err != nil {
		return Config{}, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	migrate, err := strconv.ParseBool(withDefault(getenv("DB_MIGRATE"), "true"))
	if err != nil {
		return Config{}, fmt.Errorf("DB_MIGRATE: %w", err)
	}
	cfg.DBMigrate = migrate

	return cfg, nil
}

func withDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
