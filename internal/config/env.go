package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds the API server settings read from the environment.
type ServerConfig struct {
	Port                  string        `env:"API_PORT" envDefault:"8080"`
	Env                   string        `env:"API_ENV" envDefault:"development"`
	CORSAllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	CacheEnabled          bool          `env:"SCHEDULE_CACHE_ENABLED" envDefault:"true"`
	CacheTTL              time.Duration `env:"SCHEDULE_CACHE_TTL" envDefault:"1h"`
	CompareMaxConcurrency int           `env:"COMPARE_MAX_CONCURRENCY" envDefault:"4"`
	LoanDir               string        `env:"LOAN_DIR" envDefault:"examples/loans"`
}

func (c ServerConfig) Production() bool { return c.Env == "production" }

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}
	if cfg.CacheTTL <= 0 {
		return ServerConfig{}, fmt.Errorf("SCHEDULE_CACHE_TTL must be > 0, got %s", cfg.CacheTTL)
	}
	return cfg, nil
}
