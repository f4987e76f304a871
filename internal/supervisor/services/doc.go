// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

/*
Package services provides suture.Service wrappers for davrep components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTP Server (HTTPServerService):
  - Drains the gateway on cancellation
  - Ends the tree when the listen address cannot be bound

Replica Probe (ProbeService):
  - Pings every replica on an interval
  - Exposes Healthy() for the gateway readiness endpoint
*/
package services
