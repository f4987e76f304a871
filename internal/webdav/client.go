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
	"os"
	"time"

	"github.com/tomtom215/davrep/internal/logging"
	"github.com/tomtom215/davrep/internal/metrics"
)

// Options configures a Client.
type Options struct {
	// Servers are the replica base addresses, e.g. "http://dav1:8080/files".
	Servers []string

	// Parallel issues the requests of a fan-out concurrently instead of
	// one server after another.
	Parallel bool

	// AutoCreateDirectories creates missing parent directories: after a
	// failed PUT (then retries once) and before COPY/MOVE.
	AutoCreateDirectories bool

	// ConnectTimeout and RequestTimeout configure the default HTTPTransport.
	// Ignored when Transport is set.
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// Header is added to every request.
	Header http.Header

	// Transport overrides the default HTTPTransport.
	Transport Transport

	// Logger receives one line per completed request. Optional.
	Logger RequestLogger

	// Selector picks the server for single-server reads. Defaults to uniform random.
	Selector Selector
}

// Client replicates WebDAV operations across a fixed set of servers.
//
// Write operations (Put, Copy, Move, Delete, Mkdir, Rmdir) fan out to every
// server and succeed only when every server answers within the operation's
// acceptance table. Reads (Exists, Get, IsDir, GetProperties) go to one
// randomly chosen server.
//
// Thread Safety: operations are safe for concurrent use. The Set* methods
// are not safe to call while operations are in flight.
type Client struct {
	engine     *engine
	autoCreate bool
}

// New creates a Client. At least one server is required.
func New(opts Options) (*Client, error) {
	if len(opts.Servers) == 0 {
		return nil, ErrNoServers
	}

	servers := make([]string, len(opts.Servers))
	copy(servers, opts.Servers)

	transport := opts.Transport
	if transport == nil {
		transport = NewHTTPTransport(opts.ConnectTimeout, opts.RequestTimeout)
	}
	selector := opts.Selector
	if selector == nil {
		selector = randomSelector{}
	}

	return &Client{
		engine: &engine{
			servers:   servers,
			transport: transport,
			parallel:  opts.Parallel,
			header:    opts.Header.Clone(),
			logger:    opts.Logger,
			selector:  selector,
		},
		autoCreate: opts.AutoCreateDirectories,
	}, nil
}

// Servers returns a copy of the configured server list.
func (c *Client) Servers() []string {
	out := make([]string, len(c.engine.servers))
	copy(out, c.engine.servers)
	return out
}

// SetParallel switches between concurrent and sequential fan-out.
func (c *Client) SetParallel(parallel bool) {
	c.engine.parallel = parallel
}

// SetAutoCreateDirectories toggles automatic parent directory creation.
func (c *Client) SetAutoCreateDirectories(enabled bool) {
	c.autoCreate = enabled
}

// SetLogger replaces the request logger. nil disables request logging.
func (c *Client) SetLogger(logger RequestLogger) {
	c.engine.logger = logger
}

// SetHeader sets a header sent with every request.
func (c *Client) SetHeader(key, value string) {
	if c.engine.header == nil {
		c.engine.header = http.Header{}
	}
	c.engine.header.Set(key, value)
}

// Ping sends OPTIONS / to every server. Any HTTP answer counts as
// reachable; only transport failures return an error.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.engine.fanout(ctx, &Request{Method: http.MethodOptions, Path: "/"})
	return err
}

// Exists reports whether path answers HEAD with 200 on a random server.
// Any other status is false; only transport failures return an error.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	target := FilePath(path)
	var exists bool
	err := c.observe(ctx, OpExists, target, func(ctx context.Context) error {
		resp, err := c.engine.dispatchOne(ctx, &Request{Method: http.MethodHead, Path: target})
		if err != nil {
			return err
		}
		exists = resp.StatusCode == http.StatusOK
		return nil
	})
	return exists, err
}

// Get downloads path from a random server.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	target := FilePath(path)
	var data []byte
	err := c.observe(ctx, OpGet, target, func(ctx context.Context) error {
		resp, err := c.engine.dispatchOne(ctx, &Request{Method: http.MethodGet, Path: target})
		if err != nil {
			return err
		}
		switch resp.StatusCode {
		case http.StatusOK:
			data = resp.Body
			return nil
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, target)
		default:
			return &OperationError{Op: OpGet, Path: target, Responses: NewResponseSet(resp)}
		}
	})
	return data, err
}

// Put stores data at path on every server.
func (c *Client) Put(ctx context.Context, path string, data []byte) error {
	return c.put(ctx, path, bytesBody(data), int64(len(data)))
}

// PutStream reads r fully and stores it at path on every server.
func (c *Client) PutStream(ctx context.Context, path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload stream: %w", err)
	}
	return c.Put(ctx, path, data)
}

// PutFile uploads the local file to path on every server. The file is
// reopened for each server.
func (c *Client) PutFile(ctx context.Context, path, localFile string) error {
	info, err := os.Stat(localFile)
	if err != nil {
		return fmt.Errorf("stat %s: %w", localFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, localFile)
	}

	open := func() (io.ReadCloser, error) {
		return os.Open(localFile) //nolint:gosec // caller-chosen upload source
	}
	return c.put(ctx, path, open, info.Size())
}

func (c *Client) put(ctx context.Context, path string, body BodyFunc, size int64) error {
	target := FilePath(path)
	return c.observe(ctx, OpPut, target, func(ctx context.Context) error {
		req := &Request{
			Method:        http.MethodPut,
			Path:          target,
			Body:          body,
			ContentLength: size,
		}
		return c.replicate(ctx, OpPut, req, target, parentDir(target))
	})
}

// Copy copies src to dst on every server. Each server copies within itself.
func (c *Client) Copy(ctx context.Context, src, dst string) error {
	return c.transfer(ctx, OpCopy, "COPY", src, dst)
}

// Move moves src to dst on every server.
func (c *Client) Move(ctx context.Context, src, dst string) error {
	return c.transfer(ctx, OpMove, "MOVE", src, dst)
}

// transfer creates the destination parent up front, then fans out once.
func (c *Client) transfer(ctx context.Context, op Operation, method, src, dst string) error {
	source, dest := FilePath(src), FilePath(dst)
	return c.observe(ctx, op, source, func(ctx context.Context) error {
		if c.autoCreate {
			if err := c.createDirectories(ctx, parentDir(dest)); err != nil {
				return fmt.Errorf("%s %s: %w", op, dest, err)
			}
		}

		req := &Request{
			Method: method,
			Path:   source,
			Header: http.Header{"Overwrite": {"T"}},
			PerServer: func(server string, h http.Header) {
				h.Set("Destination", joinURL(server, dest))
			},
		}
		return c.replicate(ctx, op, req, source, "")
	})
}

// Delete removes the file at path from every server. A path that is a
// directory is rejected before any DELETE is sent; use Rmdir for those.
func (c *Client) Delete(ctx context.Context, path string) error {
	target := FilePath(path)
	return c.observe(ctx, OpDelete, target, func(ctx context.Context) error {
		isDir, err := c.isDir(ctx, target)
		if err != nil {
			return err
		}
		if isDir {
			return fmt.Errorf("%w: %s", ErrIsDirectory, target)
		}
		return c.replicate(ctx, OpDelete, &Request{Method: http.MethodDelete, Path: target}, target, "")
	})
}

// IsDir reports whether path is a collection on a random server: the
// PROPFIND must answer 207 with getcontenttype httpd/unix-directory.
// Only transport failures return an error.
func (c *Client) IsDir(ctx context.Context, path string) (bool, error) {
	target := DirPath(path)
	var isDir bool
	err := c.observe(ctx, OpIsDir, target, func(ctx context.Context) error {
		var err error
		isDir, err = c.isDir(ctx, target)
		return err
	})
	return isDir, err
}

func (c *Client) isDir(ctx context.Context, path string) (bool, error) {
	resp, err := c.engine.dispatchOne(ctx, propfindRequest(DirPath(path)))
	if err != nil {
		return false, err
	}
	if resp.StatusCode != http.StatusMultiStatus {
		return false, nil
	}
	contentType, _ := ExtractProperties(resp.Body).Get(PropContentType)
	return contentType == DirectoryContentType, nil
}

// Mkdir creates dir on every server. With recursive set every missing
// ancestor is created first, shortest path first.
func (c *Client) Mkdir(ctx context.Context, dir string, recursive bool) error {
	target := DirPath(dir)
	return c.observe(ctx, OpMkdir, target, func(ctx context.Context) error {
		if recursive {
			return c.createDirectories(ctx, target)
		}
		return c.replicate(ctx, OpMkdir, &Request{Method: "MKCOL", Path: target}, target, "")
	})
}

// Rmdir deletes the directory dir, with its contents, from every server.
func (c *Client) Rmdir(ctx context.Context, dir string) error {
	target := DirPath(dir)
	return c.observe(ctx, OpRmdir, target, func(ctx context.Context) error {
		return c.replicate(ctx, OpRmdir, &Request{Method: http.MethodDelete, Path: target}, target, "")
	})
}

// GetProperties returns the properties of path from a random server.
func (c *Client) GetProperties(ctx context.Context, path string) (Properties, error) {
	target := FilePath(path)
	var props Properties
	err := c.observe(ctx, OpGetProperty, target, func(ctx context.Context) error {
		resp, err := c.engine.dispatchOne(ctx, propfindRequest(target))
		if err != nil {
			return err
		}
		switch resp.StatusCode {
		case http.StatusMultiStatus:
			props = ExtractProperties(resp.Body)
			return nil
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, target)
		default:
			return &OperationError{Op: OpGetProperty, Path: target, Responses: NewResponseSet(resp)}
		}
	})
	return props, err
}

// GetProperty returns a single property of path.
func (c *Client) GetProperty(ctx context.Context, path, name string) (string, error) {
	props, err := c.GetProperties(ctx, path)
	if err != nil {
		return "", err
	}
	value, ok := props.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", ErrPropertyNotFound, name, FilePath(path))
	}
	return value, nil
}

func propfindRequest(path string) *Request {
	return &Request{
		Method: "PROPFIND",
		Path:   path,
		Header: http.Header{"Depth": {"0"}},
	}
}

// replicate runs one fan-out and evaluates it. A Retryable verdict creates
// retryDir (when auto-create is on) and retries exactly once.
func (c *Client) replicate(ctx context.Context, op Operation, req *Request, target, retryDir string) error {
	table := TableFor(op)

	rs, err := c.engine.fanout(ctx, req)
	if err != nil {
		return err
	}

	verdict := table.Evaluate(rs)
	if verdict == Retryable && c.autoCreate && retryDir != "" {
		logging.Ctx(ctx).Info().
			Str("operation", string(op)).
			Str("path", target).
			Str("parent", retryDir).
			Msg("Parent directory missing, creating and retrying")

		if err := c.createDirectories(ctx, retryDir); err != nil {
			return fmt.Errorf("%s %s: %w", op, target, err)
		}
		metrics.RecordDirectoryRetry(string(op))

		rs, err = c.engine.fanout(ctx, req)
		if err != nil {
			return err
		}
		verdict = table.Evaluate(rs)
	}

	if verdict != Success {
		return &OperationError{Op: op, Path: target, Responses: rs}
	}
	return nil
}

// createDirectories issues one MKCOL fan-out per segment of dir, shortest
// first. 405 (already exists) counts as done.
func (c *Client) createDirectories(ctx context.Context, dir string) error {
	table := TableFor(OpMkdir)
	for _, segment := range dirSegments(dir) {
		rs, err := c.engine.fanout(ctx, &Request{Method: "MKCOL", Path: segment})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDirectoryNotCreated, err)
		}
		if table.Evaluate(rs) != Success {
			return fmt.Errorf("%w: %w", ErrDirectoryNotCreated, &OperationError{Op: OpMkdir, Path: segment, Responses: rs})
		}
	}
	return nil
}

// observe tags ctx with a correlation ID and records the operation outcome.
func (c *Client) observe(ctx context.Context, op Operation, path string, fn func(ctx context.Context) error) error {
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)
	metrics.RecordWebDAVOperation(string(op), duration, err)

	event := logging.Ctx(ctx).Debug()
	if err != nil {
		event = logging.Ctx(ctx).Warn().Err(err)
	}
	event.
		Str("operation", string(op)).
		Str("path", path).
		Int("servers", len(c.engine.servers)).
		Dur("duration", duration).
		Msg("WebDAV operation finished")
	return err
}
