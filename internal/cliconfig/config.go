// Package cliconfig provides configuration loading and defaults for the
// graphlink CLI.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RedisConfig holds connection details for a Redis-backed result store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	// TTLSeconds is how long cached entries live. Zero keeps the store's
	// default.
	TTLSeconds int `yaml:"ttl_seconds"`
}

// StoreConfig selects and sizes the result store.
type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend string `yaml:"backend"`
	// Capacity bounds the memory backend. Zero means unbounded.
	Capacity int         `yaml:"capacity"`
	Redis    RedisConfig `yaml:"redis"`
}

// MetricsConfig controls the diagnostics HTTP server of the mcp command.
type MetricsConfig struct {
	// Addr serves /metrics and /healthz when non-empty, e.g. ":9090".
	Addr string `yaml:"addr"`
}

// Config is the top-level configuration structure for the graphlink CLI.
type Config struct {
	Endpoint string            `yaml:"endpoint"`
	Headers  map[string]string `yaml:"headers"`
	// TimeoutSeconds is the HTTP request timeout in seconds.
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Retries        int           `yaml:"retries"`
	Debug          bool          `yaml:"debug"`
	LogLevel       string        `yaml:"log_level"`
	Store          StoreConfig   `yaml:"store"`
	Metrics        MetricsConfig `yaml:"metrics"`
}

// Default returns a new Config populated with sensible default values. Each
// call returns a distinct instance.
func Default() *Config {
	return &Config{
		Headers:        map[string]string{},
		TimeoutSeconds: 30,
		LogLevel:       "info",
		Store: StoreConfig{
			Backend: "memory",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order. An empty path skips the file; a
// non-empty path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	ApplyEnvOverrides(cfg)

	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	return cfg, nil
}

// ApplyEnvOverrides updates cfg in place with values from environment
// variables. Recognized variables:
//   - GRAPHLINK_ENDPOINT overrides cfg.Endpoint
//   - GRAPHLINK_TIMEOUT_SECONDS overrides cfg.TimeoutSeconds
//   - GRAPHLINK_LOG_LEVEL overrides cfg.LogLevel
//   - GRAPHLINK_DEBUG overrides cfg.Debug ("1" or "true")
//   - GRAPHLINK_REDIS_ADDR selects the redis backend at that address
//   - GRAPHLINK_METRICS_ADDR overrides cfg.Metrics.Addr
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAPHLINK_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("GRAPHLINK_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("GRAPHLINK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GRAPHLINK_DEBUG"); v != "" {
		cfg.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("GRAPHLINK_REDIS_ADDR"); v != "" {
		cfg.Store.Backend = "redis"
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("GRAPHLINK_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}
