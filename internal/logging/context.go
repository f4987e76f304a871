// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxField string

// Field names double as context keys and log keys.
const (
	correlationIDKey ctxField = "correlation_id"
	requestIDKey     ctxField = "request_id"
)

// GenerateCorrelationID returns an 8-character ID, short enough to grep for
// across the per-server lines of one operation.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

// GenerateRequestID returns a full UUID for a gateway request.
func GenerateRequestID() string {
	return uuid.NewString()
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext returns "" when ctx carries no correlation ID.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey)
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns "" when ctx carries no request ID.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

func stringValue(ctx context.Context, key ctxField) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// Ctx returns the global logger annotated with the IDs found in ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
	zc := Logger().With()
	for _, key := range [...]ctxField{correlationIDKey, requestIDKey} {
		if v := stringValue(ctx, key); v != "" {
			zc = zc.Str(string(key), v)
		}
	}
	l := zc.Logger()
	return &l
}
