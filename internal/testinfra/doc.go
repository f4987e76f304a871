// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

// Package testinfra provides container-backed WebDAV replicas for integration tests.
//
// It uses testcontainers-go to start real Apache mod_dav servers so the
// replication client is exercised against genuine WebDAV status codes and
// multi-status bodies instead of hand-written fakes.
//
// # WebDAV Replicas
//
//	func TestReplication(t *testing.T) {
//	    replicas := testinfra.StartReplicas(context.Background(), t, 2)
//
//	    client, err := webdav.New(webdav.Options{
//	        Servers:               replicas.URLs(),
//	        AutoCreateDirectories: true,
//	    })
//	    // ...
//	}
//
// # Build Tag
//
// Everything here is compiled only with -tags integration. Tests are skipped
// when the container runtime is unhealthy or DAVREP_SKIP_CONTAINERS is set.
package testinfra
