// Package config loads the storefront configuration: built-in defaults,
// overridden by an optional YAML file, overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backend names accepted in the config.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Storage struct {
	Backend       string `yaml:"backend"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
}

type Config struct {
	HTTPPort           string  `yaml:"http_port"`
	Storage            Storage `yaml:"storage"`
	CompareLimit       int     `yaml:"compare_limit"`
	ShutdownTimeoutSec int     `yaml:"shutdown_timeout_sec"`
}

// ShutdownTimeout is how long in-flight requests get to finish on SIGTERM.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

func defaults() *Config {
	return &Config{
		HTTPPort: "8080",
		Storage: Storage{
			Backend:    BackendSQLite,
			SQLitePath: "storefront.db",
			RedisAddr:  "localhost:6379",
		},
		CompareLimit:       4,
		ShutdownTimeoutSec: 10,
	}
}

// Load reads the config file at path when it exists; a missing file just
// means defaults. Environment variables win over both.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if e2 := yaml.Unmarshal(data, cfg); e2 != nil {
			return nil, fmt.Errorf("parse config: %w", e2)
		}
	}

	cfg.HTTPPort = getEnv("STOREFRONT_HTTP_PORT", cfg.HTTPPort)
	cfg.Storage.Backend = getEnv("STOREFRONT_STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.SQLitePath = getEnv("STOREFRONT_SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.Storage.RedisAddr = getEnv("STOREFRONT_REDIS_ADDR", cfg.Storage.RedisAddr)
	cfg.Storage.RedisPassword = getEnv("STOREFRONT_REDIS_PASSWORD", cfg.Storage.RedisPassword)

	switch cfg.Storage.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
