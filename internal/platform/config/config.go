// Copyright (c) 2026 Kaiwa. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, limiter) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Kaiwa API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis): identity cache + shared rate-limit counters
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing
	TokenSecret    string        `env:"TOKEN_SECRET,required"`
	TokenAlgorithm string        `env:"TOKEN_ALGORITHM"  envDefault:"HS256"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"60m"`

	// RefreshTokenTTL intentionally matches the access TTL for now; the two
	// are separate knobs so they can diverge without a code change.
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"60m"`

	// Identity cache
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"120s"`

	// Per-operation fixed-window budgets
	LoginRateLimit    int64         `env:"LOGIN_RATE_LIMIT"     envDefault:"3"`
	LoginRateWindow   time.Duration `env:"LOGIN_RATE_WINDOW"    envDefault:"1m"`
	MessageRateLimit  int64         `env:"MESSAGE_RATE_LIMIT"   envDefault:"1"`
	MessageRateWindow time.Duration `env:"MESSAGE_RATE_WINDOW"  envDefault:"1m"`

	// Cross-Origin Resource Sharing: comma-separated exact origins allowed
	// in addition to the production default.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ExtraOriginList returns the additional origins admitted by CORS.
func (c *Config) ExtraOriginList() []string {
	return c.ExtraOrigins
}
