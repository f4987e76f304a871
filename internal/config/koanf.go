// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"davrep.yaml",
	"davrep.yml",
	"/etc/davrep/config.yaml",
	"/etc/davrep/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		WebDAV: WebDAVConfig{
			Servers:               nil, // required
			Parallel:              false,
			AutoCreateDirectories: true,
			ConnectTimeout:        time.Second,
			RequestTimeout:        30 * time.Second,
			Headers:               map[string]string{},
			RateLimitPerSecond:    0,
			RateLimitBurst:        0,
			LogRequests:           false,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:             true,
				MaxRequests:         1,
				Interval:            time.Minute,
				Timeout:             30 * time.Second,
				ConsecutiveFailures: 5,
			},
		},
		Gateway: GatewayConfig{
			Host:            "0.0.0.0",
			Port:            8090,
			ReadTimeout:     60 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  256 << 20, // 256MB
			ProbeInterval:   30 * time.Second,
			CORSOrigins:     []string{},
			// Limit requests per IP per window
			RateLimitRequests: 0,
			RateLimitWindow:   time.Minute,
			Auth: AuthConfig{
				Mode:     "none",
				TokenTTL: 24 * time.Hour,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"webdav.servers",
	"gateway.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercase environment variable names to koanf paths.
var envMappings = map[string]string{
	// WebDAV client
	"davrep_servers":         "webdav.servers",
	"davrep_parallel":        "webdav.parallel",
	"davrep_auto_mkdir":      "webdav.auto_create_directories",
	"davrep_connect_timeout": "webdav.connect_timeout",
	"davrep_request_timeout": "webdav.request_timeout",
	"davrep_rate_limit":      "webdav.rate_limit_per_second",
	"davrep_rate_burst":      "webdav.rate_limit_burst",
	"davrep_log_requests":    "webdav.log_requests",

	// Circuit breaker
	"davrep_breaker_enabled":  "webdav.circuit_breaker.enabled",
	"davrep_breaker_timeout":  "webdav.circuit_breaker.timeout",
	"davrep_breaker_failures": "webdav.circuit_breaker.consecutive_failures",

	// Gateway
	"gateway_host":             "gateway.host",
	"gateway_port":             "gateway.port",
	"gateway_shutdown_timeout": "gateway.shutdown_timeout",
	"gateway_max_upload_bytes": "gateway.max_upload_bytes",
	"gateway_probe_interval":   "gateway.probe_interval",
	"gateway_cors_origins":     "gateway.cors_origins",
	"gateway_rate_limit":       "gateway.rate_limit_requests",
	"gateway_rate_window":      "gateway.rate_limit_window",

	// Gateway authentication
	"auth_mode":       "gateway.auth.mode",
	"auth_username":   "gateway.auth.username",
	"auth_password":   "gateway.auth.password",
	"auth_jwt_secret": "gateway.auth.jwt_secret",
	"auth_token_ttl":  "gateway.auth.token_ttl",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DAVREP_SERVERS -> webdav.servers
//   - DAVREP_AUTO_MKDIR -> webdav.auto_create_directories
//   - GATEWAY_PORT -> gateway.port
//
// Unmapped and empty variables are dropped.
func envTransformFunc(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped, value
	}
	return "", nil
}
