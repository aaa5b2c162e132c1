// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

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
  - DI-Friendly: Passed to core components (Mongo, Redis, dashboard) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration shared by the civicctl CLI and the
// plantation dashboard server.
type Config struct {

	// Document store (MongoDB)
	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	DBName   string `env:"DB_NAME"   envDefault:"civic_records"`

	// Key-Value Cache (Redis). Empty disables the record lookup cache.
	RedisURL string `env:"REDIS_URL"`

	// Dashboard server settings
	DashboardPort string `env:"DASHBOARD_PORT" envDefault:"8080"`
	Environment   string `env:"ENVIRONMENT"    envDefault:"development"`
	Debug         bool   `env:"DEBUG"          envDefault:"false"`

	// PlantationCSV is the filesystem path to the plantation data file.
	PlantationCSV string `env:"PLANTATION_CSV" envDefault:"plantation_data.csv"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// CacheEnabled reports whether the Redis lookup cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// IsDevelopment reports whether the process is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the process is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
