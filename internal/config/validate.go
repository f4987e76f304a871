// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/tomtom215/davrep/internal/validation"
)

// Validate checks struct tags first, then the rules tags cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateServers,
		c.validateRateLimit,
		c.validateAuth,
	}
	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateServers requires absolute http(s) URLs without query or fragment.
func (c *Config) validateServers() error {
	for _, server := range c.WebDAV.Servers {
		u, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("invalid server %q: %w", server, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("server %q must use http or https", server)
		}
		if u.Host == "" {
			return fmt.Errorf("server %q has no host", server)
		}
		if u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf("server %q must not contain a query or fragment", server)
		}
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.WebDAV.RateLimitPerSecond > 0 && c.WebDAV.RateLimitBurst == 0 {
		return errors.New("webdav.rate_limit_burst must be at least 1 when rate limiting is enabled")
	}
	return nil
}

// MinJWTSecretLength is the shortest accepted HS256 signing secret.
const MinJWTSecretLength = 32

// MinPasswordLength is the shortest accepted basic auth password.
const MinPasswordLength = 8

func (c *Config) validateAuth() error {
	auth := c.Gateway.Auth
	switch auth.Mode {
	case "basic":
		if auth.Username == "" {
			return errors.New("gateway.auth.username is required for basic auth")
		}
		if len(auth.Password) < MinPasswordLength {
			return fmt.Errorf("gateway.auth.password must be at least %d characters", MinPasswordLength)
		}
	case "jwt":
		if len(auth.JWTSecret) < MinJWTSecretLength {
			return fmt.Errorf("gateway.auth.jwt_secret must be at least %d characters", MinJWTSecretLength)
		}
	}
	return nil
}
