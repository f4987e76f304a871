// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultWebDAVImage is an Apache httpd image with mod_dav enabled.
	DefaultWebDAVImage = "bytemark/webdav:2.4"

	// DefaultWebDAVPort is the port Apache listens on inside the container.
	DefaultWebDAVPort = "80"
)

// WebDAVContainer is one running WebDAV server.
type WebDAVContainer struct {
	testcontainers.Container
	URL string
}

// WebDAVOption configures the WebDAV containers.
type WebDAVOption func(*webdavConfig)

type webdavConfig struct {
	image        string
	username     string
	password     string
	startTimeout time.Duration
}

// WithWebDAVImage sets a custom WebDAV Docker image.
func WithWebDAVImage(image string) WebDAVOption {
	return func(c *webdavConfig) {
		c.image = image
	}
}

// WithBasicAuth protects the share with HTTP basic authentication.
func WithBasicAuth(username, password string) WebDAVOption {
	return func(c *webdavConfig) {
		c.username = username
		c.password = password
	}
}

// WithStartTimeout sets the timeout for waiting for Apache to start.
func WithStartTimeout(timeout time.Duration) WebDAVOption {
	return func(c *webdavConfig) {
		c.startTimeout = timeout
	}
}

// NewWebDAVContainer creates and starts a single WebDAV server.
func NewWebDAVContainer(ctx context.Context, opts ...WebDAVOption) (*WebDAVContainer, error) {
	cfg := &webdavConfig{
		image:        DefaultWebDAVImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	env := map[string]string{"LOCATION": "/"}
	if cfg.username != "" {
		env["AUTH_TYPE"] = "Basic"
		env["USERNAME"] = cfg.username
		env["PASSWORD"] = cfg.password
	}

	port := DefaultWebDAVPort + "/tcp"
	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{port},
		Env:          env,
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(nat.Port(port)),
			wait.ForHTTP("/").WithPort(nat.Port(port)).WithStatusCodeMatcher(func(status int) bool {
				return status < http.StatusInternalServerError
			}),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create webdav container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, DefaultWebDAVPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &WebDAVContainer{
		Container: container,
		URL:       fmt.Sprintf("http://%s:%s", host, mapped.Port()),
	}, nil
}

// WebDAVReplicas is a set of independent WebDAV servers.
type WebDAVReplicas []*WebDAVContainer

// NewWebDAVReplicas starts n WebDAV servers with the same options. On error
// every container started so far is terminated.
func NewWebDAVReplicas(ctx context.Context, n int, opts ...WebDAVOption) (WebDAVReplicas, error) {
	replicas := make(WebDAVReplicas, 0, n)
	for i := range n {
		c, err := NewWebDAVContainer(ctx, opts...)
		if err != nil {
			replicas.Terminate(ctx)
			return nil, fmt.Errorf("replica %d: %w", i, err)
		}
		replicas = append(replicas, c)
	}
	return replicas, nil
}

// URLs returns the base URL of every replica in start order.
func (r WebDAVReplicas) URLs() []string {
	urls := make([]string, len(r))
	for i, c := range r {
		urls[i] = c.URL
	}
	return urls
}

// Terminate stops every replica, ignoring errors.
func (r WebDAVReplicas) Terminate(ctx context.Context) {
	for _, c := range r {
		c.Terminate(ctx) //nolint:errcheck
	}
}
