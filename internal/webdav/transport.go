// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

/*
transport.go - HTTP Transport Collaborator

The fan-out engine never talks to net/http directly. It hands each per-server
request to a Transport, which returns the status, headers and body or a
transport error. Non-2xx statuses are never errors at this layer; deciding
what a status means is the coordinator's job.

Implementations:
  - HTTPTransport: net/http with a dial (connect) timeout and a total timeout
  - BreakerTransport: one sony/gobreaker circuit breaker per server
  - RateLimitedTransport: golang.org/x/time/rate token bucket shared by all servers

Decorators compose; NewFromConfig builds HTTP -> rate limit -> breaker.
*/

//nolint:staticcheck // File documentation, not package doc
package webdav

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Default per-request timeouts.
const (
	DefaultConnectTimeout = time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// TransportRequest is one HTTP request addressed to one server.
type TransportRequest struct {
	Server string
	Method string
	URL    string
	Header http.Header
	// Body may be nil. The transport closes it.
	Body io.ReadCloser
	// ContentLength is -1 when unknown.
	ContentLength int64
}

// TransportResponse is a fully read HTTP response.
type TransportResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends a single request. It returns an error only when no HTTP
// status was obtained.
type Transport interface {
	Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	return f(ctx, req)
}

// HTTPTransport is the production Transport backed by net/http.
//
// Thread Safety: Safe for concurrent use.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport with the given connect and total
// timeouts. Zero values fall back to DefaultConnectTimeout and
// DefaultRequestTimeout. Redirects are not followed so a 301 on a collection
// is visible to the coordinator.
func NewHTTPTransport(connectTimeout, requestTimeout time.Duration) *HTTPTransport {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	var rt *http.Transport
	if ok {
		rt = base.Clone()
	} else {
		rt = &http.Transport{}
	}
	rt.DialContext = dialer.DialContext
	rt.TLSHandshakeTimeout = connectTimeout + 10*time.Second
	rt.MaxIdleConnsPerHost = 16

	return &HTTPTransport{
		client: &http.Client{
			Timeout:   requestTimeout,
			Transport: rt,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// NewHTTPTransportWithClient wraps an existing http.Client.
func NewHTTPTransportWithClient(client *http.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	body := io.ReadCloser(http.NoBody)
	if req.Body != nil {
		body = req.Body
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}
	switch {
	case req.Body == nil:
		httpReq.ContentLength = 0
	case req.ContentLength >= 0:
		httpReq.ContentLength = req.ContentLength
	default:
		httpReq.ContentLength = -1
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &TransportResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
