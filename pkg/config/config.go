// Package config loads the service configuration from the environment.
package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            int           `env:"PORT,default=8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	CustomerIDs     []int         `env:"CUSTOMER_IDS,default=1,2,3,4,5"`

	Database  Database
	Log       Log
	Telemetry Telemetry
}

type Database struct {
	URL            string `env:"DATABASE_URL,default=postgres://admin:123@db:5432/rinha"`
	MaxConns       int32  `env:"DB_MAX_CONNS,default=10"`
	ConnectRetries uint64 `env:"DB_CONNECT_RETRIES,default=10"`
	Migrate        bool   `env:"DB_MIGRATE,default=true"`
	Seed           bool   `env:"DB_SEED,default=true"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=json"`
}

type Telemetry struct {
	Enabled     bool   `env:"OTEL_ENABLED,default=false"`
	ServiceName string `env:"OTEL_SERVICE_NAME,default=rinha-ledger"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration from l, which lets tests supply a map.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, l); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port %d is out of range", cfg.Port)
	}
	if len(cfg.CustomerIDs) == 0 {
		return fmt.Errorf("at least one customer id must be configured")
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database url must be provided")
	}
	if cfg.Database.MaxConns <= 0 {
		return fmt.Errorf("database max conns must be positive")
	}
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return nil
}

// Redacted returns a copy safe to log, with the database password masked.
func (c *Config) Redacted() Config {
	redacted := *c
	if u, err := url.Parse(c.Database.URL); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
		}
		redacted.Database.URL = u.String()
	}
	return redacted
}
