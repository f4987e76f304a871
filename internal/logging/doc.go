// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

// Package logging holds the process-wide zerolog logger used by the davrep
// CLI, the WebDAV client and the gateway.
//
// main calls Init once with the LOG_LEVEL, LOG_FORMAT and LOG_CALLER values
// loaded by internal/config. Until then a JSON info-level logger on stderr is
// active. Stdout is left to command output.
//
//	logging.Info().Strs("servers", servers).Msg("WebDAV client configured")
//
// A replicated operation tags its context with a short correlation ID and the
// gateway adds a request ID; Ctx attaches whichever is present:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Str("path", p).Msg("Creating parent directories")
//
// NewSlogLogger bridges slog callers (the suture event hook) onto the same
// sink. The global logger is swapped atomically, so every function here is
// safe for concurrent use.
package logging
