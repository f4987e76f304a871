// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/davrep/internal/config"
)

// TokenIssuer is the iss claim of every token davrep issues and accepts.
const TokenIssuer = "davrep"

// Claims carries the caller name in the standard sub claim.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTManager issues and checks HS256 bearer tokens for gateway callers.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if len(secret) < config.MinJWTSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters, got %d", config.MinJWTSecretLength, len(secret))
	}
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(TokenIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

// GenerateToken signs a token for subject that expires after the TTL.
func (m *JWTManager) GenerateToken(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    TokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken returns the claims of a token signed with this manager's
// secret. Algorithms other than HS256, foreign issuers and tokens without
// an expiry are rejected.
func (m *JWTManager) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := m.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

func (m *JWTManager) authenticate(r *http.Request) (string, error) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errors.New("bearer token required")
	}
	claims, err := m.ValidateToken(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (m *JWTManager) challenge() string {
	return `Bearer realm="davrep"`
}
