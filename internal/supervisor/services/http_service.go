// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"
)

// HTTPServer is the part of *http.Server the gateway service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs the gateway under suture. Cancellation drains
// in-flight requests for at most the drain timeout.
type HTTPServerService struct {
	server HTTPServer
	drain  time.Duration
}

// NewHTTPServerService wraps server. A non-positive drain defaults to 10s.
func NewHTTPServerService(server HTTPServer, drain time.Duration) *HTTPServerService {
	if drain <= 0 {
		drain = 10 * time.Second
	}
	return &HTTPServerService{server: server, drain: drain}
}

// Serve implements suture.Service.
//
// A failure to bind the listen address cannot heal by restarting, so it ends
// the whole supervisor tree. Any other serve error is returned for suture to
// restart the service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	served := make(chan error, 1)
	go func() { served <- h.server.ListenAndServe() }()

	select {
	case err := <-served:
		switch {
		case err == nil, errors.Is(err, http.ErrServerClosed):
			return nil
		case isListenError(err):
			return fmt.Errorf("gateway listen: %w: %w", err, suture.ErrTerminateSupervisorTree)
		default:
			return fmt.Errorf("gateway serve: %w", err)
		}
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), h.drain)
	defer cancel()
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	<-served
	return ctx.Err()
}

func isListenError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "listen"
}

func (h *HTTPServerService) String() string { return "gateway-http" }
