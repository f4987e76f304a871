// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the process-wide logger.
//
// Log output defaults to stderr so that commands such as "get" can stream
// file contents to stdout without interleaving.
type Config struct {
	Level     string // trace, debug, info, warn, error, fatal, panic, disabled
	Format    string // json or console
	Caller    bool
	Timestamp bool
	Output    io.Writer
}

// DefaultConfig returns JSON logging at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // log calls made before Init must not hit a nil logger
func init() {
	Init(DefaultConfig())
}

// Init rebuilds the global logger from cfg. Calling it again replaces the
// previous logger; loggers already derived from it keep their old sink.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	ctx := zerolog.New(out).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()
	global.Store(&l)
}

// parseLevel maps a configured level name onto zerolog. Unknown and empty
// names fall back to info.
func parseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// SetLogger swaps the global logger, typically to capture output in tests.
//
//nolint:gocritic // zerolog.Logger is a value type
func SetLogger(l zerolog.Logger) {
	global.Store(&l)
}

// With starts a child context of the global logger.
func With() zerolog.Context {
	return global.Load().With()
}

// WithComponent returns a child logger tagged with component, e.g. "webdav"
// or "gateway".
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}

// Info, Warn, Error and Fatal start events on the global logger. Fatal exits
// the process after the event is written.
func Info() *zerolog.Event  { return global.Load().Info() }
func Warn() *zerolog.Event  { return global.Load().Warn() }
func Error() *zerolog.Event { return global.Load().Error() }
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// NewTestLogger returns a timestamped JSON logger writing to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
