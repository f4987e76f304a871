// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
)

const (
	serverA = "http://dav-a.test/files"
	serverB = "http://dav-b.test/files"
)

// memDAV is a minimal in-memory WebDAV server.
type memDAV struct {
	files map[string][]byte
	dirs  map[string]bool
	// force maps "METHOD /path" to a status returned instead of the real answer.
	force map[string]int
}

func newMemDAV() *memDAV {
	return &memDAV{
		files: map[string][]byte{},
		dirs:  map[string]bool{"/": true},
		force: map[string]int{},
	}
}

func (m *memDAV) handle(method, path string, header http.Header, body []byte, server string) (int, []byte) {
	if status, ok := m.force[method+" "+path]; ok {
		return status, nil
	}

	switch method {
	case http.MethodOptions:
		return http.StatusOK, nil

	case http.MethodHead, http.MethodGet:
		data, ok := m.files[path]
		if !ok {
			return http.StatusNotFound, nil
		}
		if method == http.MethodHead {
			return http.StatusOK, nil
		}
		return http.StatusOK, data

	case http.MethodPut:
		if !m.dirs[parentDir(path)] {
			return http.StatusConflict, nil
		}
		_, existed := m.files[path]
		m.files[path] = body
		if existed {
			return http.StatusNoContent, nil
		}
		return http.StatusCreated, nil

	case "MKCOL":
		if m.dirs[path] {
			return http.StatusMethodNotAllowed, nil
		}
		if !m.dirs[parentDir(path)] {
			return http.StatusConflict, nil
		}
		m.dirs[path] = true
		return http.StatusCreated, nil

	case http.MethodDelete:
		if strings.HasSuffix(path, "/") {
			if !m.dirs[path] {
				return http.StatusNotFound, nil
			}
			for d := range m.dirs {
				if strings.HasPrefix(d, path) {
					delete(m.dirs, d)
				}
			}
			for f := range m.files {
				if strings.HasPrefix(f, path) {
					delete(m.files, f)
				}
			}
			return http.StatusNoContent, nil
		}
		if _, ok := m.files[path]; !ok {
			return http.StatusNotFound, nil
		}
		delete(m.files, path)
		return http.StatusNoContent, nil

	case "COPY", "MOVE":
		data, ok := m.files[path]
		if !ok {
			return http.StatusNotFound, nil
		}
		dest := unescape(strings.TrimPrefix(header.Get("Destination"), strings.TrimRight(server, "/")))
		if !m.dirs[parentDir(dest)] {
			return http.StatusConflict, nil
		}
		_, existed := m.files[dest]
		m.files[dest] = data
		if method == "MOVE" {
			delete(m.files, path)
		}
		if existed {
			return http.StatusNoContent, nil
		}
		return http.StatusCreated, nil

	case "PROPFIND":
		if m.dirs[DirPath(path)] {
			return http.StatusMultiStatus, multistatus(path, "<D:collection/>", DirectoryContentType, 0)
		}
		if data, ok := m.files[FilePath(path)]; ok {
			return http.StatusMultiStatus, multistatus(path, "", "text/plain", len(data))
		}
		return http.StatusNotFound, nil
	}

	return http.StatusMethodNotAllowed, nil
}

func multistatus(href, resourceType, contentType string, length int) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<D:multistatus xmlns:D="DAV:">
  <D:response xmlns:lp1="DAV:" xmlns:lp2="http://apache.org/dav/props/">
    <D:href>%s</D:href>
    <D:propstat>
      <D:prop>
        <lp1:resourcetype>%s</lp1:resourcetype>
        <D:getcontenttype>%s</D:getcontenttype>
        <lp1:getcontentlength>%d</lp1:getcontentlength>
        <lp2:executable>F</lp2:executable>
      </D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
</D:multistatus>`, href, resourceType, contentType, length))
}

// cluster routes transport requests to one memDAV per server and records
// every request as "METHOD server path".
type cluster struct {
	mu       sync.Mutex
	servers  map[string]*memDAV
	down     map[string]error
	requests []string
	headers  []http.Header
	bodies   map[string][]byte
}

func newCluster(servers ...string) *cluster {
	c := &cluster{
		servers: map[string]*memDAV{},
		down:    map[string]error{},
		bodies:  map[string][]byte{},
	}
	for _, s := range servers {
		c.servers[s] = newMemDAV()
	}
	return c
}

func (c *cluster) Send(_ context.Context, req *TransportRequest) (*TransportResponse, error) {
	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = data
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	wire := strings.TrimPrefix(req.URL, strings.TrimRight(req.Server, "/"))
	c.requests = append(c.requests, req.Method+" "+req.Server+" "+wire)
	path := unescape(wire)
	c.headers = append(c.headers, req.Header.Clone())
	if body != nil {
		c.bodies[req.Server+" "+path] = body
	}

	if err, ok := c.down[req.Server]; ok {
		return nil, err
	}
	dav, ok := c.servers[req.Server]
	if !ok {
		return nil, fmt.Errorf("unknown server %s", req.Server)
	}
	status, respBody := dav.handle(req.Method, path, req.Header, body, req.Server)
	return &TransportResponse{StatusCode: status, Header: http.Header{}, Body: respBody}, nil
}

// unescape decodes a request path as a WebDAV server would.
func unescape(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		return decoded
	}
	return p
}

func (c *cluster) server(name string) *memDAV {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.servers[name]
}

// recorded returns the requests, sorted when sorted is set so concurrent
// fan-outs compare deterministically.
func (c *cluster) recorded(sorted bool) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]string(nil), c.requests...)
	if sorted {
		sort.Strings(out)
	}
	return out
}

func (c *cluster) methods() []string {
	var out []string
	for _, r := range c.recorded(false) {
		out = append(out, strings.SplitN(r, " ", 2)[0])
	}
	return out
}

func (c *cluster) count(method string) int {
	n := 0
	for _, m := range c.methods() {
		if m == method {
			n++
		}
	}
	return n
}

func (c *cluster) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = nil
	c.headers = nil
}

// firstServer always picks index 0.
var firstServer = SelectorFunc(func(int) int { return 0 })

func newTestClient(t *testing.T, c *cluster, parallel, autoCreate bool, servers ...string) *Client {
	t.Helper()
	if len(servers) == 0 {
		servers = []string{serverA, serverB}
	}
	client, err := New(Options{
		Servers:               servers,
		Parallel:              parallel,
		AutoCreateDirectories: autoCreate,
		Transport:             c,
		Selector:              firstServer,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
