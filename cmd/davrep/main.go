// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

// Package main is the davrep command line tool.
//
// davrep replicates every write to a fixed set of WebDAV servers and reads
// from one of them at random. Servers and behavior are configured through
// davrep.yaml or environment variables:
//
//	export DAVREP_SERVERS=http://dav1:8080/files,http://dav2:8080/files
//	export DAVREP_PARALLEL=true
//	davrep put reports/q3.pdf ./q3.pdf
//	davrep copy reports/q3.pdf archive/2026/q3.pdf
//	davrep propget reports/q3.pdf getetag
//
// "davrep serve" runs the HTTP gateway under a supervisor tree until
// SIGINT or SIGTERM. "davrep token <subject>" mints a bearer token for a
// gateway running with AUTH_MODE=jwt.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/davrep/internal/config"
	"github.com/tomtom215/davrep/internal/logging"
	"github.com/tomtom215/davrep/internal/webdav"
)

const usage = `usage: davrep <command> [arguments]

commands:
  put <remote> <local|->     store a local file (or stdin) on every server
  get <remote> [local]       read a file from one server (stdout by default)
  delete <remote>            delete a file from every server
  mkdir [-recursive=false] <dir>
                             create a directory on every server
  rmdir <dir>                delete a directory from every server
  copy <src> <dst>           copy a file on every server
  move <src> <dst>           move a file on every server
  exists <remote>            report whether a file exists
  isdir <remote>             report whether a path is a directory
  propget <remote> [name]    print WebDAV properties
  ping                       check that every server answers OPTIONS
  serve                      run the HTTP gateway
  token <subject>            print a gateway bearer token (auth mode jwt)
`

var errUsage = errors.New("invalid usage")

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "help" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if os.Args[1] == "token" {
		if err := printToken(cfg.Gateway.Auth, os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "davrep: %v\n", err)
			os.Exit(2)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := webdav.NewFromConfig(&cfg.WebDAV)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create WebDAV client")
	}

	command, args := os.Args[1], os.Args[2:]
	if command == "serve" {
		err = serve(ctx, cfg, client)
	} else {
		err = run(ctx, client, command, args, os.Stdin, os.Stdout)
	}

	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "davrep: %v\n\n%s", err, usage)
			stop()
			os.Exit(2) //nolint:gocritic // stop already called
		}
		logging.Error().Err(err).Str("command", command).Msg("Command failed")
		stop()
		os.Exit(1) //nolint:gocritic // stop already called
	}
}
