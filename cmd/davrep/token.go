// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package main

import (
	"fmt"
	"io"

	"github.com/tomtom215/davrep/internal/auth"
	"github.com/tomtom215/davrep/internal/config"
)

// printToken writes a signed gateway token for the subject in args.
func printToken(cfg config.AuthConfig, args []string, stdout io.Writer) error {
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("%w: token requires exactly one subject", errUsage)
	}
	if auth.Mode(cfg.Mode) != auth.ModeJWT {
		return fmt.Errorf("token requires gateway.auth.mode jwt, got %q", cfg.Mode)
	}

	manager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	token, err := manager.GenerateToken(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}
