// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

// Package config loads davrep configuration from defaults, an optional YAML
// file and environment variables using Koanf v2.
package config

import (
	"time"
)

// Config is the complete application configuration.
type Config struct {
	WebDAV  WebDAVConfig  `koanf:"webdav"`
	Gateway GatewayConfig `koanf:"gateway"`
	Logging LoggingConfig `koanf:"logging"`
}

// WebDAVConfig configures the replicated WebDAV client.
type WebDAVConfig struct {
	// Servers are the replica base URLs. Every write goes to all of them.
	Servers []string `koanf:"servers" validate:"required,min=1,dive,required,url"`

	// Parallel issues the requests of one fan-out concurrently.
	Parallel bool `koanf:"parallel"`

	// AutoCreateDirectories creates missing parents for PUT, COPY and MOVE.
	AutoCreateDirectories bool `koanf:"auto_create_directories"`

	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`

	// Headers are sent with every request (e.g. Authorization).
	Headers map[string]string `koanf:"headers"`

	// RateLimitPerSecond throttles outgoing requests; 0 disables throttling.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second" validate:"gte=0"`
	RateLimitBurst     int     `koanf:"rate_limit_burst" validate:"gte=0"`

	// LogRequests writes "<METHOD> <STATUS> <URI>" for every completed request.
	LogRequests bool `koanf:"log_requests"`

	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// CircuitBreakerConfig configures the per-server circuit breakers.
type CircuitBreakerConfig struct {
	Enabled             bool          `koanf:"enabled"`
	MaxRequests         uint32        `koanf:"max_requests"`
	Interval            time.Duration `koanf:"interval" validate:"gte=0"`
	Timeout             time.Duration `koanf:"timeout" validate:"gte=0"`
	ConsecutiveFailures uint32        `koanf:"consecutive_failures"`
}

// GatewayConfig configures the HTTP gateway started by "davrep serve".
type GatewayConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// MaxUploadBytes caps PUT bodies accepted by the gateway.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`
	// ProbeInterval is how often every replica is pinged for readiness.
	ProbeInterval time.Duration `koanf:"probe_interval" validate:"gt=0"`

	// CORSOrigins lists allowed browser origins; empty disables CORS headers.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow per client IP; 0 disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`

	Auth AuthConfig `koanf:"auth"`
}

// AuthConfig protects the gateway's file routes. Health and metrics stay open.
type AuthConfig struct {
	// Mode is "none", "basic" or "jwt".
	Mode     string `koanf:"mode" validate:"oneof=none basic jwt"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	// JWTSecret signs HS256 bearer tokens; at least 32 characters.
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

// LoggingConfig mirrors logging.Config for file and env loading.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}
