// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import (
	"net/http"

	"github.com/tomtom215/davrep/internal/config"
	"github.com/tomtom215/davrep/internal/logging"
)

// NewFromConfig builds a Client with the production transport stack:
// net/http, then the optional rate limiter, then per-server circuit breakers.
func NewFromConfig(cfg *config.WebDAVConfig) (*Client, error) {
	var transport Transport = NewHTTPTransport(cfg.ConnectTimeout, cfg.RequestTimeout)

	if cfg.RateLimitPerSecond > 0 {
		transport = NewRateLimitedTransport(transport, cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}

	if cfg.CircuitBreaker.Enabled {
		transport = NewBreakerTransport(transport, cfg.Servers, BreakerSettings{
			MaxRequests:         cfg.CircuitBreaker.MaxRequests,
			Interval:            cfg.CircuitBreaker.Interval,
			Timeout:             cfg.CircuitBreaker.Timeout,
			ConsecutiveFailures: cfg.CircuitBreaker.ConsecutiveFailures,
		})
	}

	header := http.Header{}
	for k, v := range cfg.Headers {
		header.Set(k, v)
	}

	opts := Options{
		Servers:               cfg.Servers,
		Parallel:              cfg.Parallel,
		AutoCreateDirectories: cfg.AutoCreateDirectories,
		Header:                header,
		Transport:             transport,
	}
	if cfg.LogRequests {
		opts.Logger = NewZerologRequestLogger(logging.Logger())
	}

	client, err := New(opts)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Strs("servers", cfg.Servers).
		Bool("parallel", cfg.Parallel).
		Bool("auto_create_directories", cfg.AutoCreateDirectories).
		Bool("circuit_breaker", cfg.CircuitBreaker.Enabled).
		Float64("rate_limit", cfg.RateLimitPerSecond).
		Msg("WebDAV client configured")

	return client, nil
}
