// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomtom215/davrep/internal/logging"
)

// Pinger checks that every replica answers. Satisfied by *webdav.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeService pings the replicas on an interval and records the result.
// A failed ping never ends Serve; only context cancellation does.
type ProbeService struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	name     string

	healthy atomic.Bool
	lastErr atomic.Value // stores probeResult
}

type probeResult struct {
	err error
}

// NewProbeService creates a probe. timeout bounds a single ping and
// defaults to the interval.
func NewProbeService(pinger Pinger, interval, timeout time.Duration) *ProbeService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &ProbeService{
		pinger:   pinger,
		interval: interval,
		timeout:  timeout,
		name:     "replica-probe",
	}
}

// Serve implements suture.Service.
func (p *ProbeService) Serve(ctx context.Context) error {
	p.probe(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *ProbeService) probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.pinger.Ping(pingCtx)
	if ctx.Err() != nil {
		return
	}

	first := p.lastErr.Load() == nil
	wasHealthy := p.healthy.Swap(err == nil)
	p.lastErr.Store(probeResult{err: err})

	// Log transitions only.
	switch {
	case err != nil && (first || wasHealthy):
		logging.Warn().Err(err).Msg("Replica probe failed")
	case err == nil && (first || !wasHealthy):
		logging.Info().Msg("All replicas reachable")
	}
}

// Healthy reports whether the most recent ping reached every replica.
// It is false until the first ping completes.
func (p *ProbeService) Healthy() bool {
	return p.healthy.Load()
}

// LastError returns the error of the most recent ping, or nil.
func (p *ProbeService) LastError() error {
	if r, ok := p.lastErr.Load().(probeResult); ok {
		return r.err
	}
	return nil
}

// String implements fmt.Stringer; suture uses it in event logs.
func (p *ProbeService) String() string {
	return p.name
}
