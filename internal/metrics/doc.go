// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry via promauto and are
exposed by the gateway at /metrics:

	curl http://localhost:8090/metrics

# Available Metrics

WebDAV Request Metrics (one observation per server request):
  - webdav_requests_total: Requests by method and status code (counter)
  - webdav_request_duration_seconds: Per-request latency (histogram)
  - webdav_transport_errors_total: Requests without an HTTP status (counter)

WebDAV Operation Metrics (one observation per client call):
  - webdav_operations_total: Operations by name and result (counter)
  - webdav_operation_duration_seconds: Latency including retries (histogram)
  - webdav_directory_retries_total: Retries after parent creation (counter)

Gateway Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests

Circuit Breaker Metrics (name label is the server base address):
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: success, failure, rejected (counter)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total (counter)

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
