// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
Go structs. A `.env` file in the working directory is loaded first when
present (via 'joho/godotenv'); real environment variables always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Two schemas exist: [Config] for the client and CLI, [ServerConfig] for the
development API.
*/
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Token Storage Backends

// TokenBackend selects where the credential slot lives.
type TokenBackend string

const (
	BackendFile     TokenBackend = "file"
	BackendSQLite   TokenBackend = "sqlite"
	BackendRedis    TokenBackend = "redis"
	BackendPostgres TokenBackend = "postgres"
	BackendMemory   TokenBackend = "memory"
)

// # Client Schema

// Config holds all runtime configuration for the client and CLI.
type Config struct {

	// API endpoint
	APIBaseURL string `env:"EXPENSA_API_BASE_URL" envDefault:"http://localhost:8080/api/v1"`
	APIPrefix  string `env:"EXPENSA_API_PREFIX"   envDefault:"/api"`

	// HTTPTimeout bounds one API call end to end.
	HTTPTimeout time.Duration `env:"EXPENSA_HTTP_TIMEOUT" envDefault:"15s"`

	// Client side throttling. Zero RPS disables the stage.
	RateLimitRPS   float64 `env:"EXPENSA_RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"EXPENSA_RATE_LIMIT_BURST" envDefault:"5"`

	// Durable credential slot
	TokenBackend TokenBackend `env:"EXPENSA_TOKEN_BACKEND" envDefault:"file"`
	TokenKey     string       `env:"EXPENSA_TOKEN_KEY"     envDefault:"auth_token"`
	TokenPath    string       `env:"EXPENSA_TOKEN_PATH"`

	// Remote slots
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field rules env tags cannot express.
func (c *Config) Validate() error {
	base, err := url.Parse(c.APIBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("config: EXPENSA_API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}

	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("config: EXPENSA_API_PREFIX must start with '/', got %q", c.APIPrefix)
	}

	if c.TokenKey == "" {
		return errors.New("config: EXPENSA_TOKEN_KEY must not be empty")
	}

	switch c.TokenBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required for the redis token backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres token backend")
		}
	default:
		return fmt.Errorf("config: unknown EXPENSA_TOKEN_BACKEND %q", c.TokenBackend)
	}

	if c.RateLimitRPS < 0 {
		return errors.New("config: EXPENSA_RATE_LIMIT_RPS must not be negative")
	}

	return nil
}

// ResolvedTokenPath returns the file used by the file and sqlite backends.
//
// Defaults to the user config directory, e.g. ~/.config/expensa/token.
func (c *Config) ResolvedTokenPath() (string, error) {
	if c.TokenPath != "" {
		return c.TokenPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}

	name := "token"
	if c.TokenBackend == BackendSQLite {
		name = "credentials.db"
	}

	return filepath.Join(dir, "expensa", name), nil
}

// # Development API Schema

// ServerConfig holds runtime configuration for the development API.
type ServerConfig struct {
	ServerPort  string        `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string        `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool          `env:"DEBUG"        envDefault:"false"`
	JWTSecret   string        `env:"JWT_SECRET"   envDefault:"expensa-development-secret"`
	JWTTTL      time.Duration `env:"JWT_TTL"      envDefault:"8h"`
}

// LoadServer parses environment variables into a [ServerConfig].
func LoadServer() (*ServerConfig, error) {
	loadDotEnv()

	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if len(cfg.JWTSecret) < 16 {
		return nil, errors.New("config: JWT_SECRET must be at least 16 bytes")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// loadDotEnv loads ".env" when it exists. A missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load(".env")
}
