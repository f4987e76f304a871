// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import (
	"net/url"
	"strings"
)

// FilePath normalizes p into file form: exactly one leading slash and no
// trailing slash. An empty path normalizes to "/".
//
//	FilePath("/a/b/") // "/a/b"
func FilePath(p string) string {
	return "/" + strings.Trim(p, "/")
}

// DirPath normalizes p into directory form: exactly one leading and one
// trailing slash. An empty path normalizes to "/".
//
//	DirPath("a/b") // "/a/b/"
func DirPath(p string) string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}

// parentDir returns the directory containing p in directory form.
func parentDir(p string) string {
	trimmed := strings.Trim(p, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return "/"
	}
	return DirPath(trimmed[:idx])
}

// dirSegments returns every directory prefix of dir, shortest first.
// The root itself is never included:
//
//	dirSegments("/a/b/") // ["/a/", "/a/b/"]
func dirSegments(dir string) []string {
	trimmed := strings.Trim(dir, "/")
	if trimmed == "" {
		return nil
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]string, 0, len(parts))
	current := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		current += "/" + part
		segments = append(segments, current+"/")
	}
	return segments
}

// joinURL concatenates a server base address with a normalized path. Each
// path segment is percent-escaped, so "#", "?" and "%" stay part of the
// resource name.
func joinURL(server, path string) string {
	return strings.TrimRight(server, "/") + escapePath(path)
}

func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}
