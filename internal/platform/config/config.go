// Copyright (c) 2026 Yomira. All rights reserved.
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
  - DI-Friendly: Passed to core components (Collections client, index scheduler) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Collections backends selectable through COLLECTIONS_BACKEND.
const (
	BackendHTTP   = "http"
	BackendMemory = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the catalogue API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Collections catalogue store
	CollectionsBackend   string        `env:"COLLECTIONS_BACKEND"    envDefault:"http"`
	CollectionsURL       string        `env:"COLLECTIONS_URL"`
	CollectionsTimeout   time.Duration `env:"COLLECTIONS_TIMEOUT"    envDefault:"15s"`
	CollectionsRateLimit float64       `env:"COLLECTIONS_RATE_LIMIT" envDefault:"20"`
	CollectionsBurst     int           `env:"COLLECTIONS_BURST"      envDefault:"40"`

	// Relational Database (PostgreSQL) backing the record id sequence.
	// When empty, ids are minted from an in-process counter (development only).
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// IDSeed is the first id handed out by the in-process counter.
	IDSeed int64 `env:"ID_SEED" envDefault:"1000000"`

	// Redis fans out created titles to the other replicas. Optional.
	RedisURL string `env:"REDIS_URL"`

	// Title search index
	IndexInitialDelay    time.Duration `env:"INDEX_INITIAL_DELAY"    envDefault:"10s"`
	IndexRebuildInterval time.Duration `env:"INDEX_REBUILD_INTERVAL" envDefault:"1h"`
	IndexRefreshInterval time.Duration `env:"INDEX_REFRESH_INTERVAL" envDefault:"5s"`
	IndexPageSize        int           `env:"INDEX_PAGE_SIZE"        envDefault:"500"`
	IndexRequireReady    bool          `env:"INDEX_REQUIRE_READY"    envDefault:"true"`

	// TitleCacheTTL bounds how long a fetched title is reused without asking Collections again.
	TitleCacheTTL time.Duration `env:"TITLE_CACHE_TTL" envDefault:"10m"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:".nb.no"`
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	switch c.CollectionsBackend {
	case BackendHTTP:
		if c.CollectionsURL == "" {
			return fmt.Errorf("config: COLLECTIONS_URL is required when COLLECTIONS_BACKEND=%s", BackendHTTP)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown COLLECTIONS_BACKEND %q", c.CollectionsBackend)
	}

	// Production replicas must not mint record ids or hold catalogue data in process memory.
	if c.IsProduction() {
		if c.CollectionsBackend == BackendMemory {
			return fmt.Errorf("config: COLLECTIONS_BACKEND=%s is not allowed in production", BackendMemory)
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required in production")
		}
	}

	if c.IndexPageSize < 1 {
		return fmt.Errorf("config: INDEX_PAGE_SIZE must be positive, got %d", c.IndexPageSize)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix returns the host suffix accepted by the CORS middleware outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
