// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/davrep/internal/logging"
	"github.com/tomtom215/davrep/internal/metrics"
)

// BreakerSettings configures the per-server circuit breakers.
type BreakerSettings struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts reset.
	Interval time.Duration
	// Timeout before an open breaker moves to half-open.
	Timeout time.Duration
	// ConsecutiveFailures that open the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings returns conservative breaker settings.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// BreakerTransport guards each server with its own circuit breaker.
// Only transport errors count as failures; any HTTP status is a success from
// the breaker's point of view. A rejected request surfaces as a transport
// error, which fails the fan-out like any other unreachable server.
//
// The breaker map is built at construction and only read afterwards.
type BreakerTransport struct {
	next     Transport
	breakers map[string]*gobreaker.CircuitBreaker[*TransportResponse]
}

// NewBreakerTransport creates one breaker per server. Requests for servers
// not listed pass straight through.
func NewBreakerTransport(next Transport, servers []string, settings BreakerSettings) *BreakerTransport {
	defaults := DefaultBreakerSettings()
	if settings.MaxRequests == 0 {
		settings.MaxRequests = defaults.MaxRequests
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaults.Timeout
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = defaults.ConsecutiveFailures
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker[*TransportResponse], len(servers))
	for _, server := range servers {
		if _, exists := breakers[server]; exists {
			continue
		}
		breakers[server] = newServerBreaker(server, settings)
	}

	return &BreakerTransport{next: next, breakers: breakers}
}

func newServerBreaker(server string, settings BreakerSettings) *gobreaker.CircuitBreaker[*TransportResponse] {
	metrics.CircuitBreakerState.WithLabelValues(server).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(server).Set(0)

	return gobreaker.NewCircuitBreaker[*TransportResponse](gobreaker.Settings{
		Name:        server,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		IsSuccessful: func(err error) bool {
			var canceled *callerCanceledError
			return err == nil || errors.As(err, &canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= settings.ConsecutiveFailures
			if shouldTrip {
				logging.Warn().
					Str("server", server).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("server", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

// callerCanceledError marks a failure caused by the caller's own context.
// The breaker counts it as neither success nor failure of the server.
type callerCanceledError struct{ err error }

func (e *callerCanceledError) Error() string { return e.err.Error() }
func (e *callerCanceledError) Unwrap() error { return e.err }

// Send implements Transport.
func (t *BreakerTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	cb, ok := t.breakers[req.Server]
	if !ok {
		return t.next.Send(ctx, req)
	}

	resp, err := cb.Execute(func() (*TransportResponse, error) {
		resp, err := t.next.Send(ctx, req)
		if err != nil && ctx.Err() != nil {
			return nil, &callerCanceledError{err: err}
		}
		return resp, err
	})
	var canceled *callerCanceledError
	if errors.As(err, &canceled) {
		metrics.CircuitBreakerRequests.WithLabelValues(req.Server, "canceled").Inc()
		return nil, canceled.err
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			if req.Body != nil {
				req.Body.Close()
			}
			metrics.CircuitBreakerRequests.WithLabelValues(req.Server, "rejected").Inc()
			return nil, fmt.Errorf("circuit breaker %s: %w", req.Server, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(req.Server, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(req.Server).Set(float64(cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(req.Server, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(req.Server).Set(0)
	return resp, nil
}

// State reports the breaker state of server, or "unknown".
func (t *BreakerTransport) State(server string) string {
	cb, ok := t.breakers[server]
	if !ok {
		return "unknown"
	}
	return stateToString(cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// RateLimitedTransport throttles outgoing requests with a token bucket shared
// by all servers. A wait aborted by the context is a transport error.
type RateLimitedTransport struct {
	next    Transport
	limiter *rate.Limiter
}

// NewRateLimitedTransport allows perSecond requests with the given burst.
// A burst below 1 is raised to 1.
func NewRateLimitedTransport(next Transport, perSecond float64, burst int) *RateLimitedTransport {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Send implements Transport.
func (t *RateLimitedTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.next.Send(ctx, req)
}
