// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

// Package gateway exposes the replicated WebDAV client over a small REST API.
//
// Routes:
//
//	PUT    /files/*             store the request body on every server
//	GET    /files/*             read a file from one server
//	HEAD   /files/*             existence check
//	DELETE /files/*             delete a file (directories are refused)
//	POST   /files/*?op=copy|move&to=<path>
//	PUT    /dirs/*              create a directory (?recursive=false for one level)
//	GET    /dirs/*              directory check
//	DELETE /dirs/*              delete a directory
//	GET    /props/*             PROPFIND properties (?name= for one)
//	GET    /healthz/live, /healthz/ready, /metrics
//
// The file, directory and property routes sit behind the optional
// authentication middleware and per-IP rate limiter; health and metrics
// are always open.
package gateway

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/davrep/internal/config"
)

// routerOptions holds the optional middleware of the API routes.
type routerOptions struct {
	corsOrigins     []string
	rateLimit       int
	rateLimitWindow time.Duration
	auth            func(http.Handler) http.Handler
}

// RouterOption configures NewRouter.
type RouterOption func(*routerOptions)

// WithCORS allows browser requests from origins. No origins, no CORS headers.
func WithCORS(origins []string) RouterOption {
	return func(o *routerOptions) {
		o.corsOrigins = origins
	}
}

// WithRateLimit allows requests per window per client IP on the API routes.
// requests <= 0 disables limiting.
func WithRateLimit(requests int, window time.Duration) RouterOption {
	return func(o *routerOptions) {
		o.rateLimit = requests
		o.rateLimitWindow = window
	}
}

// WithAuth protects the API routes with mw.
func WithAuth(mw func(http.Handler) http.Handler) RouterOption {
	return func(o *routerOptions) {
		o.auth = mw
	}
}

// RouterOptionsFromConfig maps gateway configuration onto router options.
// Authentication is wired separately since it needs a constructed middleware.
func RouterOptionsFromConfig(cfg config.GatewayConfig) []RouterOption {
	return []RouterOption{
		WithCORS(cfg.CORSOrigins),
		WithRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
	}
}

// NewRouter builds the chi router for h.
func NewRouter(h *Handler, opts ...RouterOption) http.Handler {
	o := &routerOptions{rateLimitWindow: time.Minute}
	for _, opt := range opts {
		opt(o)
	}

	r := chi.NewRouter()

	r.Use(requestContext)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if len(o.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: o.corsOrigins,
			AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", chimiddleware.RequestIDHeader},
			ExposedHeaders: []string{chimiddleware.RequestIDHeader},
			MaxAge:         86400,
		}))
	}

	r.Route("/healthz", func(r chi.Router) {
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(instrument)
		if o.rateLimit > 0 {
			r.Use(httprate.Limit(
				o.rateLimit,
				o.rateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(respondRateLimited),
			))
		}
		if o.auth != nil {
			r.Use(o.auth)
		}

		r.Route("/files", func(r chi.Router) {
			r.Get("/*", h.GetFile)
			r.Head("/*", h.HeadFile)
			r.Put("/*", h.PutFile)
			r.Post("/*", h.TransferFile)
			r.Delete("/*", h.DeleteFile)
		})
		r.Route("/dirs", func(r chi.Router) {
			r.Get("/*", h.StatDir)
			r.Put("/*", h.MakeDir)
			r.Delete("/*", h.RemoveDir)
		})
		r.Get("/props/*", h.Properties)
	})

	return r
}

// NewServer creates the gateway http.Server from configuration.
func NewServer(cfg config.GatewayConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
