// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/davrep/internal/config"
	"github.com/tomtom215/davrep/internal/logging"
)

// Mode selects how requests are authenticated.
type Mode string

// Authentication modes.
const (
	ModeNone  Mode = "none"
	ModeBasic Mode = "basic"
	ModeJWT   Mode = "jwt"
)

// ErrUnauthorized is passed to the error handler for every rejected request.
var ErrUnauthorized = errors.New("unauthorized")

type contextKey string

const subjectContextKey contextKey = "auth-subject"

// ContextWithSubject stores the authenticated subject.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// SubjectFromContext returns the authenticated subject, or "".
func SubjectFromContext(ctx context.Context) string {
	if subject, ok := ctx.Value(subjectContextKey).(string); ok {
		return subject
	}
	return ""
}

// ErrorHandler writes the response for a rejected request. err wraps
// ErrUnauthorized.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// authenticator is implemented by BasicAuthManager and JWTManager.
type authenticator interface {
	authenticate(r *http.Request) (subject string, err error)
	challenge() string
}

// Middleware enforces the configured authentication mode.
type Middleware struct {
	mode    Mode
	authn   authenticator
	onError ErrorHandler
}

// NewMiddleware builds the middleware from configuration. A nil onError
// writes a plain-text 401.
func NewMiddleware(cfg config.AuthConfig, onError ErrorHandler) (*Middleware, error) {
	m := &Middleware{mode: Mode(cfg.Mode), onError: onError}
	if m.mode == "" {
		m.mode = ModeNone
	}
	if m.onError == nil {
		m.onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	var err error
	switch m.mode {
	case ModeNone:
	case ModeBasic:
		m.authn, err = NewBasicAuthManager(cfg.Username, cfg.Password)
	case ModeJWT:
		m.authn, err = NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	default:
		err = fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("auth %s: %w", m.mode, err)
	}
	return m, nil
}

func (m *Middleware) Mode() Mode { return m.mode }

// Handler wraps next with authentication. The subject of an accepted
// request is available through SubjectFromContext.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	if m.authn == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := m.authn.authenticate(r)
		if err != nil {
			logging.Ctx(r.Context()).Warn().
				Err(err).
				Str("mode", string(m.mode)).
				Str("remote_addr", r.RemoteAddr).
				Msg("Authentication failed")
			w.Header().Set("WWW-Authenticate", m.authn.challenge())
			m.onError(w, r, fmt.Errorf("%w: %w", ErrUnauthorized, err))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
	})
}
