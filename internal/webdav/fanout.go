// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/davrep/internal/metrics"
)

// BodyFunc opens a fresh copy of a request body. It is called once per
// server so every replica receives the full payload.
type BodyFunc func() (io.ReadCloser, error)

// bytesBody replays an in-memory payload.
func bytesBody(data []byte) BodyFunc {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

// Request is one logical request before it is addressed to servers.
type Request struct {
	Method string
	// Path is already normalized with FilePath or DirPath.
	Path   string
	Header http.Header
	Body   BodyFunc
	// ContentLength of each body copy, -1 when unknown.
	ContentLength int64
	// PerServer adjusts the header set for one server, e.g. to point the
	// COPY/MOVE Destination at the same replica.
	PerServer func(server string, h http.Header)
}

// Response is the outcome of one request against one server.
type Response struct {
	Server     string
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
	// Err is set when no HTTP status was obtained.
	Err error
}

// ResponseSet holds one Response per contacted server, in ServerSet order.
type ResponseSet struct {
	responses []*Response
}

// NewResponseSet builds a ResponseSet from responses.
func NewResponseSet(responses ...*Response) *ResponseSet {
	return &ResponseSet{responses: responses}
}

// All returns the responses in server order.
func (rs *ResponseSet) All() []*Response {
	if rs == nil {
		return nil
	}
	return rs.responses
}

// Len returns the number of responses.
func (rs *ResponseSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.responses)
}

// Get returns the first response recorded for server.
func (rs *ResponseSet) Get(server string) (*Response, bool) {
	for _, resp := range rs.All() {
		if resp.Server == server {
			return resp, true
		}
	}
	return nil, false
}

// Statuses maps each server to its status code.
func (rs *ResponseSet) Statuses() map[string]int {
	out := make(map[string]int, rs.Len())
	for _, resp := range rs.All() {
		if _, seen := out[resp.Server]; !seen {
			out[resp.Server] = resp.StatusCode
		}
	}
	return out
}

// transportErr returns the first transport error in server order.
func (rs *ResponseSet) transportErr() error {
	for _, resp := range rs.All() {
		if resp.Err != nil {
			return resp.Err
		}
	}
	return nil
}

// Selector picks the server index used by single-server reads.
type Selector interface {
	Pick(n int) int
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(n int) int

// Pick calls f.
func (f SelectorFunc) Pick(n int) int {
	return f(n)
}

type randomSelector struct{}

func (randomSelector) Pick(n int) int {
	return rand.IntN(n)
}

// engine issues a Request to servers and collects the ResponseSet.
type engine struct {
	servers   []string
	transport Transport
	parallel  bool
	header    http.Header
	logger    RequestLogger
	selector  Selector
}

// fanout sends req to every configured server.
func (e *engine) fanout(ctx context.Context, req *Request) (*ResponseSet, error) {
	return e.dispatch(ctx, req, e.servers)
}

// dispatchOne sends req to a single randomly chosen server. There is no
// fallback to another server when it fails.
func (e *engine) dispatchOne(ctx context.Context, req *Request) (*Response, error) {
	idx := e.selector.Pick(len(e.servers))
	if idx < 0 || idx >= len(e.servers) {
		idx = 0
	}
	rs, err := e.dispatch(ctx, req, e.servers[idx:idx+1])
	if err != nil {
		return nil, err
	}
	return rs.All()[0], nil
}

// dispatch contacts every server in servers and returns only after all of
// them resolved. Any transport error fails the whole dispatch, but never
// before the remaining requests completed.
func (e *engine) dispatch(ctx context.Context, req *Request, servers []string) (*ResponseSet, error) {
	responses := make([]*Response, len(servers))

	if e.parallel && len(servers) > 1 {
		var g errgroup.Group
		for i, server := range servers {
			g.Go(func() error {
				responses[i] = e.send(ctx, server, req)
				return responses[i].Err
			})
		}
		// Wait only joins; the reported error is the first in server order.
		_ = g.Wait()
	} else {
		for i, server := range servers {
			responses[i] = e.send(ctx, server, req)
		}
	}

	rs := NewResponseSet(responses...)
	e.logResponses(rs)

	if err := rs.transportErr(); err != nil {
		return rs, err
	}
	return rs, nil
}

func (e *engine) send(ctx context.Context, server string, req *Request) *Response {
	url := joinURL(server, req.Path)
	resp := &Response{Server: server, Method: req.Method, URL: url}

	header := make(http.Header, len(e.header)+len(req.Header)+1)
	for k, v := range e.header {
		header[k] = append([]string(nil), v...)
	}
	for k, v := range req.Header {
		header[k] = append([]string(nil), v...)
	}
	if req.PerServer != nil {
		req.PerServer(server, header)
	}

	treq := &TransportRequest{
		Server:        server,
		Method:        req.Method,
		URL:           url,
		Header:        header,
		ContentLength: -1,
	}
	if req.Body != nil {
		body, err := req.Body()
		if err != nil {
			resp.Err = &TransportError{Server: server, Method: req.Method, URL: url, Err: fmt.Errorf("open body: %w", err)}
			metrics.RecordWebDAVTransportError(req.Method)
			return resp
		}
		treq.Body = body
		treq.ContentLength = req.ContentLength
	}

	start := time.Now()
	tresp, err := e.transport.Send(ctx, treq)
	resp.Duration = time.Since(start)
	if err != nil {
		resp.Err = &TransportError{Server: server, Method: req.Method, URL: url, Err: err}
		metrics.RecordWebDAVTransportError(req.Method)
		return resp
	}

	resp.StatusCode = tresp.StatusCode
	resp.Header = tresp.Header
	resp.Body = tresp.Body
	metrics.RecordWebDAVRequest(req.Method, tresp.StatusCode, resp.Duration)
	return resp
}

// logResponses writes one line per completed request once the whole
// dispatch has resolved, so concurrent requests never interleave.
func (e *engine) logResponses(rs *ResponseSet) {
	if e.logger == nil {
		return
	}
	for _, resp := range rs.All() {
		if resp.Err != nil {
			continue
		}
		e.logger.Log(fmt.Sprintf("%s %d %s", resp.Method, resp.StatusCode, resp.URL))
	}
}
