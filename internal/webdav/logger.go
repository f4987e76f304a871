// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import "github.com/rs/zerolog"

// RequestLogger receives one "<METHOD> <STATUS> <URI>" line per completed request.
type RequestLogger interface {
	Log(message string)
}

// RequestLoggerFunc adapts a function to the RequestLogger interface.
type RequestLoggerFunc func(message string)

// Log calls f.
func (f RequestLoggerFunc) Log(message string) {
	f(message)
}

// ZerologRequestLogger writes request lines to a zerolog logger at info level.
type ZerologRequestLogger struct {
	logger zerolog.Logger
}

// NewZerologRequestLogger creates a RequestLogger backed by logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewZerologRequestLogger(logger zerolog.Logger) *ZerologRequestLogger {
	return &ZerologRequestLogger{
		logger: logger.With().Str("component", "webdav").Logger(),
	}
}

// Log implements RequestLogger.
func (l *ZerologRequestLogger) Log(message string) {
	l.logger.Info().Msg(message)
}
