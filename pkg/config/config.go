package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig is populated from the environment; every field has a sane
// default for local development except the external service URLs.
type AppConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"3001"`

	// When DatabaseURL is set the postgres adapter is used; otherwise the
	// service falls back to sqlite at DatabasePath.
	DatabaseURL    string `env:"DATABASE_URL"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"database.db"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"db/migrations"`

	// Postgres migrations live apart from the sqlite ones; both are
	// resolved against the module root unless absolute.
	PGMigrationsPath string `env:"PG_MIGRATIONS_PATH" envDefault:"infra/migrations"`

	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:5173"`

	RedisURL string `env:"REDIS_URL"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	CacheEnabled     bool `env:"CACHE_ENABLED" envDefault:"true"`

	OTLPEndpoint string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
	MetricsPort  string `env:"METRICS_PORT" envDefault:"9091"`
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:      "development",
		Port:             "3001",
		DatabasePath:     "database.db",
		MigrationsPath:   "db/migrations",
		PGMigrationsPath: "infra/migrations",
		AllowedOrigin:    "http://localhost:5173",
		RateLimitEnabled: true,
		CacheEnabled:     true,
		OTLPEndpoint:     "localhost:4317",
		MetricsPort:      "9091",
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
