// internal/config/config.go
// Loads configuration from the environment (and an optional .env file)

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const defaultJWTSecret = "akwa-connect-secret-key"

// Config holds all application configuration
type Config struct {
	// Server
	Port           string   `env:"PORT" env-default:"8080"`
	Environment    string   `env:"ENVIRONMENT" env-default:"development"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`

	// Storage
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	RedisURL    string `env:"REDIS_URL"`

	// Security
	JWTSecret string `env:"JWT_SECRET" env-default:"akwa-connect-secret-key"`

	Log      LogConfig
	Matching MatchingConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// MatchingConfig tunes discovery, not scoring.
type MatchingConfig struct {
	CacheTTL          time.Duration `env:"MATCH_CACHE_TTL" env-default:"5m"`
	ScoringWorkers    int           `env:"SCORING_WORKERS" env-default:"8"`
	MaxCandidatePool  int           `env:"MAX_CANDIDATE_POOL" env-default:"500"`
	SwipeLimitPerHour int           `env:"SWIPE_LIMIT_PER_HOUR" env-default:"100"`
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL is required")
	}

	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT secret must be changed for production")
	}

	if c.Matching.ScoringWorkers < 1 {
		return errors.New("scoring workers must be positive")
	}
	if c.Matching.MaxCandidatePool < 1 {
		return errors.New("max candidate pool must be positive")
	}
	if c.Matching.SwipeLimitPerHour < 1 {
		return errors.New("swipe limit must be positive")
	}
	if c.Matching.CacheTTL < 0 {
		return errors.New("match cache TTL cannot be negative")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
