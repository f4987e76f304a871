// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

/*
Package supervisor runs the long-lived parts of "davrep serve" under suture v4.

	davrep
	├── probes   ProbeService pings every replica on an interval
	└── gateway  HTTPServerService serves the REST gateway

Each layer is its own supervisor, so probe restarts and backoff never bounce
the gateway. Suture events go through sutureslog into the zerolog pipeline.
*/
package supervisor
