// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/davrep/internal/auth"
	"github.com/tomtom215/davrep/internal/config"
	"github.com/tomtom215/davrep/internal/gateway"
	"github.com/tomtom215/davrep/internal/logging"
	"github.com/tomtom215/davrep/internal/supervisor"
	"github.com/tomtom215/davrep/internal/supervisor/services"
	"github.com/tomtom215/davrep/internal/webdav"
)

// serve runs the gateway and the replica probe until ctx is canceled.
func serve(ctx context.Context, cfg *config.Config, client *webdav.Client) error {
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Gateway.ShutdownTimeout,
	})

	probe := services.NewProbeService(client, cfg.Gateway.ProbeInterval, cfg.WebDAV.RequestTimeout)
	tree.Add(supervisor.ProbeLayer, probe)

	authMiddleware, err := auth.NewMiddleware(cfg.Gateway.Auth, gateway.RespondUnauthorized)
	if err != nil {
		return fmt.Errorf("create auth middleware: %w", err)
	}

	handler := gateway.NewHandler(client, cfg.Gateway.MaxUploadBytes)
	handler.SetReadiness(probe)
	routerOpts := append(gateway.RouterOptionsFromConfig(cfg.Gateway), gateway.WithAuth(authMiddleware.Handler))
	server := gateway.NewServer(cfg.Gateway, gateway.NewRouter(handler, routerOpts...))
	tree.Add(supervisor.GatewayLayer, services.NewHTTPServerService(server, cfg.Gateway.ShutdownTimeout))

	logging.Info().
		Str("addr", server.Addr).
		Str("auth_mode", string(authMiddleware.Mode())).
		Strs("servers", client.Servers()).
		Msg("Starting gateway")

	unstopped, serveErr := tree.Run(ctx)
	for _, name := range unstopped {
		logging.Warn().Str("service", name).Msg("Service failed to stop")
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", serveErr)
	}
	logging.Info().Msg("Gateway stopped gracefully")
	return nil
}
