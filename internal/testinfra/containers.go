// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

//go:build integration

package testinfra

import (
	"context"
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// SkipContainersEnv disables container-backed tests when set to any value.
const SkipContainersEnv = "DAVREP_SKIP_CONTAINERS"

// RequireContainers skips t when SkipContainersEnv is set or the container
// runtime does not answer a health check.
func RequireContainers(t *testing.T) {
	t.Helper()
	if os.Getenv(SkipContainersEnv) != "" {
		t.Skipf("%s is set", SkipContainersEnv)
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// StartReplicas starts n WebDAV replicas for the lifetime of t and returns
// them. Each container is terminated when t finishes.
func StartReplicas(ctx context.Context, t *testing.T, n int, opts ...WebDAVOption) WebDAVReplicas {
	t.Helper()
	RequireContainers(t)

	replicas, err := NewWebDAVReplicas(ctx, n, opts...)
	if err != nil {
		t.Fatalf("start %d WebDAV replicas: %v", n, err)
	}
	for _, r := range replicas {
		testcontainers.CleanupContainer(t, r.Container)
	}
	return replicas
}
