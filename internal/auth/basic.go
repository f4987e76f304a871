// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/davrep/internal/config"
)

// bcryptCost is lowered by tests.
var bcryptCost = 12

var errBadCredentials = errors.New("invalid username or password")

// BasicAuthManager checks HTTP Basic credentials against one configured
// account. Only a bcrypt hash of the password is kept.
type BasicAuthManager struct {
	username string
	hash     []byte
}

func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	switch {
	case username == "":
		return nil, errors.New("username is required")
	case password == "":
		return nil, errors.New("password is required")
	case len(password) < config.MinPasswordLength:
		return nil, fmt.Errorf("password must be at least %d characters", config.MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &BasicAuthManager{username: username, hash: hash}, nil
}

// Verify reports whether username and password match the account. Both
// comparisons always run.
func (m *BasicAuthManager) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(m.hash, []byte(password)) == nil
	if !userOK || !passOK {
		return errBadCredentials
	}
	return nil
}

func (m *BasicAuthManager) authenticate(r *http.Request) (string, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return "", errors.New("basic credentials required")
	}
	if err := m.Verify(username, password); err != nil {
		return "", err
	}
	return username, nil
}

func (m *BasicAuthManager) challenge() string {
	return `Basic realm="davrep", charset="UTF-8"`
}
