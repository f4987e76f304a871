// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/davrep/internal/validation"
	"github.com/tomtom215/davrep/internal/webdav"
)

// Replicator is the subset of *webdav.Client the gateway drives.
type Replicator interface {
	Servers() []string
	Exists(ctx context.Context, path string) (bool, error)
	Get(ctx context.Context, path string) ([]byte, error)
	PutStream(ctx context.Context, path string, r io.Reader) error
	Copy(ctx context.Context, src, dst string) error
	Move(ctx context.Context, src, dst string) error
	Delete(ctx context.Context, path string) error
	IsDir(ctx context.Context, path string) (bool, error)
	Mkdir(ctx context.Context, dir string, recursive bool) error
	Rmdir(ctx context.Context, dir string) error
	GetProperties(ctx context.Context, path string) (webdav.Properties, error)
	GetProperty(ctx context.Context, path, name string) (string, error)
}

var _ Replicator = (*webdav.Client)(nil)

// ReadinessChecker reports replica reachability. Satisfied by
// *services.ProbeService.
type ReadinessChecker interface {
	Healthy() bool
	LastError() error
}

// Handler serves the gateway endpoints.
type Handler struct {
	client         Replicator
	maxUploadBytes int64
	readiness      ReadinessChecker
}

// NewHandler creates a Handler. maxUploadBytes <= 0 disables the upload cap.
func NewHandler(client Replicator, maxUploadBytes int64) *Handler {
	return &Handler{client: client, maxUploadBytes: maxUploadBytes}
}

type resourceRequest struct {
	Path string `validate:"required,davpath"`
}

type transferRequest struct {
	Path string `validate:"required,davpath"`
	Op   string `validate:"required,oneof=copy move"`
	To   string `validate:"required,davpath"`
}

type pathResult struct {
	Path string `json:"path"`
}

type transferResult struct {
	Operation   string `json:"operation"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type dirResult struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

type propertyResult struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type propertiesResult struct {
	Path       string            `json:"path"`
	Properties webdav.Properties `json:"properties"`
}

type healthResult struct {
	Status  string   `json:"status"`
	Servers []string `json:"servers,omitempty"`
}

// wildcardPath returns the decoded "*" route parameter. chi matches on
// RawPath when the client escaped more than needed, leaving escapes in it.
func wildcardPath(r *http.Request) (string, error) {
	param := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return param, nil
	}
	decoded, err := url.PathUnescape(param)
	if err != nil {
		return "", fmt.Errorf("malformed path escape: %w", err)
	}
	return decoded, nil
}

// resourcePath extracts and validates the wildcard path segment.
func (h *Handler) resourcePath(w http.ResponseWriter, r *http.Request) (string, bool) {
	param, err := wildcardPath(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, validation.CodeValidation, err.Error(), nil, nil)
		return "", false
	}
	req := resourceRequest{Path: param}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return "", false
	}
	return req.Path, true
}

// HealthLive always reports alive while the process serves requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, healthResult{Status: "alive"}, time.Now())
}

// SetReadiness makes /healthz/ready depend on checker.
func (h *Handler) SetReadiness(checker ReadinessChecker) {
	h.readiness = checker
}

// HealthReady reports ready once servers are configured and, when a
// readiness checker is set, the last probe reached every replica.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.client == nil || len(h.client.Servers()) == 0 {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "no WebDAV servers configured", nil, nil)
		return
	}
	if h.readiness != nil && !h.readiness.Healthy() {
		message := "replicas not probed yet"
		if err := h.readiness.LastError(); err != nil {
			message = err.Error()
		}
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", message, nil, nil)
		return
	}
	respondSuccess(w, http.StatusOK, healthResult{Status: "ready", Servers: h.client.Servers()}, time.Now())
}

// GetFile streams the file content from one replica.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resourcePath(w, r)
	if !ok {
		return
	}

	data, err := h.client.Get(r.Context(), path)
	if err != nil {
		respondWebDAVError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HeadFile answers 200 when the file exists on the chosen replica, 404 otherwise.
func (h *Handler) HeadFile(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resourcePath(w, r)
	if !ok {
		return
	}

	exists, err := h.client.Exists(r.Context(), path)
	if err != nil {
		respondWebDAVError(w, r, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PutFile replicates the request body to every server.
func (h *Handler) PutFile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path, ok := h.resourcePath(w, r)
	if !ok {
		return
	}

	body := r.Body
	if h.maxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := h.client.PutStream(r.Context(), path, body); err != nil {
		respondWebDAVError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, pathResult{Path: webdav.FilePath(path)}, start)
}

// TransferFile handles POST /files/*?op=copy|move&to=<path>.
func (h *Handler) TransferFile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query()
	source, err := wildcardPath(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, validation.CodeValidation, err.Error(), nil, nil)
		return
	}
	req := transferRequest{
		Path: source,
		Op:   query.Get("op"),
		To:   query.Get("to"),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	if req.Op == "move" {
		err = h.client.Move(r.Context(), req.Path, req.To)
	} else {
		err = h.client.Copy(r.Context(), req.Path, req.To)
	}
	if err != nil {
		respondWebDAVError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusCreated, transferResult{
		Operation:   req.Op,
		Source:      webdav.FilePath(req.Path),
		Destination: webdav.FilePath(req.To),
	}, start)
}

// DeleteFile removes a file from every server. Directories are refused.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path, ok := h.resourcePath(w, r)
	if !ok {
		return
	}

	if err := h.client.Delete(r.Context(), path); err != nil {
		respondWebDAVError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, pathResult{Path: webdav.FilePath(path)}, start)
}

// MakeDir creates a directory, recursively unless ?recursive=false.
func (h *Handler) MakeDir(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path, ok := h.resourcePath(w, r)
	if !ok {
		return
	}

	recursive := true
	if raw := r.URL.Query().Get("recursive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, CodeValidation, "recursive must be a boolean", nil, nil)
			return
		}
		recursive = parsed
	}

	if err := h.client.Mkdir(r.Context(), path, recursive); err != nil {
		respondWebDAVError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, pathResult{Path: webdav.DirPath(path)}, start)
}

// RemoveDir deletes a directory and its contents from every server.
func (h *Handler) RemoveDir(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path, ok := h.resourcePath(w, r)
	if !ok {
		return
	}

	if err := h.client.Rmdir(r.Context(), path); err != nil {
		respondWebDAVError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, pathResult{Path: webdav.DirPath(path)}, start)
}

// StatDir reports whether the path is a directory.
func (h *Handler) StatDir(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path, ok := h.resourcePath(w, r)
	if !ok {
		return
	}

	isDir, err := h.client.IsDir(r.Context(), path)
	if err != nil {
		respondWebDAVError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, dirResult{Path: webdav.DirPath(path), IsDir: isDir}, start)
}

// Properties returns all properties, or the one named by ?name=.
func (h *Handler) Properties(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path, ok := h.resourcePath(w, r)
	if !ok {
		return
	}

	if name := r.URL.Query().Get("name"); name != "" {
		value, err := h.client.GetProperty(r.Context(), path, name)
		if err != nil {
			respondWebDAVError(w, r, err)
			return
		}
		respondSuccess(w, http.StatusOK, propertyResult{Path: webdav.FilePath(path), Name: name, Value: value}, start)
		return
	}

	props, err := h.client.GetProperties(r.Context(), path)
	if err != nil {
		respondWebDAVError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, propertiesResult{Path: webdav.FilePath(path), Properties: props}, start)
}
