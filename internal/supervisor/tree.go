// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer selects the child supervisor a service runs under.
type Layer int

const (
	// ProbeLayer holds background replica checks.
	ProbeLayer Layer = iota
	// GatewayLayer holds the HTTP gateway.
	GatewayLayer
)

func (l Layer) String() string {
	switch l {
	case ProbeLayer:
		return "probes"
	case GatewayLayer:
		return "gateway"
	default:
		return "unknown"
	}
}

// TreeConfig tunes restart behavior. Zero fields take the values from
// DefaultTreeConfig.
type TreeConfig struct {
	FailureThreshold float64       // failures tolerated before backoff
	FailureDecay     float64       // seconds for the failure count to decay
	FailureBackoff   time.Duration // pause once the threshold is crossed
	ShutdownTimeout  time.Duration // per-service stop deadline
}

// DefaultTreeConfig matches suture's own defaults apart from a shorter
// shutdown timeout.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// Tree is the supervisor hierarchy of "davrep serve": a root with one child
// supervisor per Layer, so a crashing probe never restarts the gateway.
type Tree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	config TreeConfig
}

// NewTree builds the hierarchy. Supervisor events are logged through logger.
func NewTree(logger *slog.Logger, cfg TreeConfig) *Tree {
	cfg = cfg.withDefaults()

	rootSpec := cfg.spec()
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &Tree{
		root:   suture.New("davrep", rootSpec),
		layers: make(map[Layer]*suture.Supervisor, 2),
		config: cfg,
	}
	for _, l := range []Layer{ProbeLayer, GatewayLayer} {
		child := suture.New(l.String(), cfg.spec())
		t.root.Add(child)
		t.layers[l] = child
	}
	return t
}

// Add registers svc under layer. Unknown layers fall back to the probe layer.
func (t *Tree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	sup, ok := t.layers[layer]
	if !ok {
		sup = t.layers[ProbeLayer]
	}
	return sup.Add(svc)
}

// Run serves the tree until ctx is canceled or a service terminates it, then
// returns the serve error and the names of services that missed the shutdown
// deadline.
func (t *Tree) Run(ctx context.Context) (unstopped []string, err error) {
	err = <-t.root.ServeBackground(ctx)
	report, _ := t.root.UnstoppedServiceReport()
	for _, svc := range report {
		unstopped = append(unstopped, svc.Name)
	}
	return unstopped, err
}
