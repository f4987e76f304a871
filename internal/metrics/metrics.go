// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebDAV Request Metrics (one per server request)
	WebDAVRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdav_requests_total",
			Help: "Total number of WebDAV requests sent to replica servers",
		},
		[]string{"method", "status_code"},
	)

	WebDAVRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webdav_request_duration_seconds",
			Help:    "Duration of individual WebDAV requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method"},
	)

	WebDAVTransportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdav_transport_errors_total",
			Help: "Total number of WebDAV requests that failed without an HTTP status",
		},
		[]string{"method"},
	)

	// WebDAV Operation Metrics (one per logical client call)
	WebDAVOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdav_operations_total",
			Help: "Total number of replicated WebDAV operations",
		},
		[]string{"operation", "result"}, // result: "success", "failure"
	)

	WebDAVOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webdav_operation_duration_seconds",
			Help:    "Duration of replicated WebDAV operations including retries",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	WebDAVDirectoryRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdav_directory_retries_total",
			Help: "Total number of operations retried after creating missing parent directories",
		},
		[]string{"operation"},
	)

	// Gateway API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of gateway API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Gateway API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active gateway API requests",
		},
	)

	// Circuit Breaker Metrics (labelled by server)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected", "canceled"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordWebDAVRequest records one completed server request.
func RecordWebDAVRequest(method string, statusCode int, duration time.Duration) {
	WebDAVRequestsTotal.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	WebDAVRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordWebDAVTransportError records a request that produced no HTTP status.
func RecordWebDAVTransportError(method string) {
	WebDAVTransportErrors.WithLabelValues(method).Inc()
}

// RecordWebDAVOperation records the outcome of a logical client operation.
func RecordWebDAVOperation(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	WebDAVOperationsTotal.WithLabelValues(operation, result).Inc()
	WebDAVOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordDirectoryRetry records a retry after automatic directory creation.
func RecordDirectoryRetry(operation string) {
	WebDAVDirectoryRetries.WithLabelValues(operation).Inc()
}

// RecordAPIRequest records a gateway API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
