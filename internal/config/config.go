// Package config reads runtime settings from the environment. A .env file
// in the working directory, if present, is loaded first; variables already
// set in the environment win.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/erazemk/najdeno/internal/model"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds every runtime setting.
type Config struct {
	Addr           string
	Backend        string
	DBPath         string
	DatabaseURL    string
	MaxOpenConns   int
	MaxIdleConns   int
	JWTSecret      string
	TokenTTL       time.Duration
	PasswordScheme string
	CORSOrigins    []string
	Seed           bool
	RecentDays     int
	LogLevel       slog.Level
	Environment    string
	OTLPEndpoint   string
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (*Config, error) {
	c := &Config{
		Addr:           orDefault(getenv("NAJDENO_ADDR"), ":8080"),
		Backend:        strings.ToLower(orDefault(getenv("NAJDENO_BACKEND"), BackendSQLite)),
		DBPath:         orDefault(getenv("NAJDENO_DB"), "najdeno.sqlite3"),
		DatabaseURL:    getenv("DATABASE_URL"),
		JWTSecret:      getenv("JWT_SECRET"),
		PasswordScheme: strings.ToLower(getenv("PASSWORD_SCHEME")),
		CORSOrigins:    splitList(getenv("CORS_ALLOWED_ORIGINS")),
		Environment:    orDefault(getenv("ENVIRONMENT"), "development"),
		OTLPEndpoint:   getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if c.MaxOpenConns, err = intVar(getenv, "DB_MAX_OPEN_CONNS", 0); err != nil {
		return nil, err
	}
	if c.MaxIdleConns, err = intVar(getenv, "DB_MAX_IDLE_CONNS", 0); err != nil {
		return nil, err
	}
	if c.RecentDays, err = intVar(getenv, "RECENT_DAYS", 30); err != nil {
		return nil, err
	}
	c.TokenTTL = 7 * 24 * time.Hour
	if v := strings.TrimSpace(getenv("TOKEN_TTL")); v != "" {
		if c.TokenTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
	}
	if v := getenv("NAJDENO_SEED"); v != "" {
		if c.Seed, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid NAJDENO_SEED %q: %w", v, err)
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}
	return c, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendMemory, BackendSQLite, BackendPostgres)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.RecentDays <= 0 || c.RecentDays > model.MaxRecentDays {
		return fmt.Errorf("RECENT_DAYS must be between 1 and %d, got %d", model.MaxRecentDays, c.RecentDays)
	}
	return nil
}

// Production reports whether the service runs in production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
