// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// slogBridge is an slog.Handler that writes through a zerolog logger. Attrs
// added with WithAttrs are folded into the logger context once; groups become
// dotted key prefixes.
type slogBridge struct {
	logger zerolog.Logger
	prefix string
}

// NewSlogLogger returns an slog.Logger backed by the current global logger,
// for libraries such as sutureslog that only speak slog.
func NewSlogLogger() *slog.Logger {
	return slog.New(&slogBridge{logger: Logger()})
}

func (b *slogBridge) Enabled(_ context.Context, level slog.Level) bool {
	lvl := slogLevel(level)
	return lvl >= b.logger.GetLevel() && lvl >= zerolog.GlobalLevel()
}

//nolint:gocritic // slog.Handler signature
func (b *slogBridge) Handle(_ context.Context, r slog.Record) error {
	ev := b.logger.WithLevel(slogLevel(r.Level))
	r.Attrs(func(a slog.Attr) bool {
		ev = ev.Fields(flatten(nil, b.prefix, a))
		return true
	})
	ev.Msg(r.Message)
	return nil
}

func (b *slogBridge) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := map[string]any{}
	for _, a := range attrs {
		flatten(fields, b.prefix, a)
	}
	return &slogBridge{logger: b.logger.With().Fields(fields).Logger(), prefix: b.prefix}
}

func (b *slogBridge) WithGroup(name string) slog.Handler {
	if name == "" {
		return b
	}
	return &slogBridge{logger: b.logger, prefix: b.prefix + name + "."}
}

// flatten writes a into fields under prefix, expanding groups.
func flatten(fields map[string]any, prefix string, a slog.Attr) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			flatten(fields, p, ga)
		}
		return fields
	}
	if a.Key == "" {
		return fields
	}
	fields[prefix+a.Key] = v.Any()
	return fields
}

func slogLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	case level >= slog.LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
