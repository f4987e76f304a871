// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/davrep/internal/logging"
	"github.com/tomtom215/davrep/internal/webdav"
)

// APIResponse is the envelope for every JSON response.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes returned in APIError.Code.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodePropertyNotFound    = "PROPERTY_NOT_FOUND"
	CodeIsDirectory         = "IS_DIRECTORY"
	CodeDirectoryNotCreated = "DIRECTORY_NOT_CREATED"
	CodeReplicationFailed   = "REPLICATION_FAILED"
	CodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
	CodeUpstreamUnreachable = "UPSTREAM_UNREACHABLE"
	CodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &APIResponse{
		Status: "success",
		Data:   data,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &APIResponse{
		Status: "error",
		Metadata: Metadata{
			Timestamp: time.Now(),
		},
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// RespondUnauthorized writes a 401 envelope. It matches auth.ErrorHandler.
func RespondUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "authentication required", nil, err)
}

// respondRateLimited is the httprate limit handler.
func respondRateLimited(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "too many requests", nil, nil)
}

// respondWebDAVError maps a client error onto an HTTP status.
func respondWebDAVError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, details := classifyError(err)
	respondError(w, r, status, code, err.Error(), details, err)
}

func classifyError(err error) (status int, code string, details map[string]interface{}) {
	var (
		opErr       *webdav.OperationError
		transErr    *webdav.TransportError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, webdav.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, nil
	case errors.Is(err, webdav.ErrPropertyNotFound):
		return http.StatusNotFound, CodePropertyNotFound, nil
	case errors.Is(err, webdav.ErrIsDirectory):
		return http.StatusConflict, CodeIsDirectory, nil
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, CodePayloadTooLarge, map[string]interface{}{"limit": maxBytesErr.Limit}
	case errors.As(err, &transErr):
		details = map[string]interface{}{"server": transErr.Server}
		if isTimeout(err) {
			return http.StatusGatewayTimeout, CodeUpstreamTimeout, details
		}
		return http.StatusBadGateway, CodeUpstreamUnreachable, details
	case errors.As(err, &opErr):
		details = map[string]interface{}{"statuses": opErr.Responses.Statuses()}
		if errors.Is(err, webdav.ErrDirectoryNotCreated) {
			return http.StatusBadGateway, CodeDirectoryNotCreated, details
		}
		return http.StatusBadGateway, CodeReplicationFailed, details
	default:
		return http.StatusInternalServerError, CodeInternal, nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
