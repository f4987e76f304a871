// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	// ErrNoServers indicates a client was configured without any server.
	ErrNoServers = errors.New("webdav: no servers configured")

	// ErrNotFound indicates the read target does not exist on the chosen server.
	ErrNotFound = errors.New("webdav: not found")

	// ErrPropertyNotFound indicates PROPFIND succeeded but the property was absent.
	ErrPropertyNotFound = errors.New("webdav: property not found")

	// ErrIsDirectory indicates a file operation was attempted on a directory.
	ErrIsDirectory = errors.New("webdav: path is a directory")

	// ErrDirectoryNotCreated wraps failures of the automatic parent creation.
	ErrDirectoryNotCreated = errors.New("webdav: parent directory not created")
)

// TransportError reports a request that never produced an HTTP status:
// connection refused, DNS failure, timeout, open circuit or rate limit wait.
// A single TransportError fails the whole fan-out.
type TransportError struct {
	Server string
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("webdav: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// OperationError reports a replicated operation whose responses fell outside
// its acceptance table.
type OperationError struct {
	Op        Operation
	Path      string
	Responses *ResponseSet
}

var operationFailureMessages = map[Operation]string{
	OpGet:         "file not read",
	OpPut:         "file not created",
	OpCopy:        "file not copied",
	OpMove:        "file not moved",
	OpDelete:      "file not deleted",
	OpMkdir:       "directory not created",
	OpRmdir:       "directory not deleted",
	OpGetProperty: "properties not read",
}

func (e *OperationError) Error() string {
	msg, ok := operationFailureMessages[e.Op]
	if !ok {
		msg = strings.ToLower(string(e.Op)) + " failed"
	}

	var b strings.Builder
	b.WriteString("webdav: ")
	b.WriteString(msg)
	b.WriteString(": ")
	b.WriteString(e.Path)

	if e.Responses != nil {
		table := TableFor(e.Op)
		var failed []string
		for _, resp := range e.Responses.All() {
			if table.Classify(resp.StatusCode) == Success || table.Classify(resp.StatusCode) == Benign {
				continue
			}
			failed = append(failed, fmt.Sprintf("%s=%d", resp.Server, resp.StatusCode))
		}
		if len(failed) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(failed, ", "))
			b.WriteString(")")
		}
	}
	return b.String()
}

// StatusOf returns the status a server answered with, or 0.
func (e *OperationError) StatusOf(server string) int {
	if e.Responses == nil {
		return 0
	}
	if resp, ok := e.Responses.Get(server); ok {
		return resp.StatusCode
	}
	return 0
}
