// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

/*
Package auth authenticates requests to the gateway's file routes.

Key Components:

  - BasicAuthManager: HTTP Basic Authentication with a bcrypt-hashed password
  - JWTManager: HS256 bearer token generation and validation
  - Middleware: chi-compatible middleware selecting one of the above by mode

Authentication Modes (gateway.auth.mode / AUTH_MODE):

  - none: every request passes (default)
  - basic: a single configured username and password
  - jwt: "Authorization: Bearer <token>" signed with gateway.auth.jwt_secret;
    tokens are minted with "davrep token <subject>"

The authenticated subject is stored in the request context:

	subject := auth.SubjectFromContext(r.Context())
*/
package auth
