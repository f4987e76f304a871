// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/davrep/internal/webdav"
)

// replicator is the client surface the one-shot commands use.
type replicator interface {
	Ping(ctx context.Context) error
	Exists(ctx context.Context, path string) (bool, error)
	Get(ctx context.Context, path string) ([]byte, error)
	PutFile(ctx context.Context, path, localFile string) error
	PutStream(ctx context.Context, path string, r io.Reader) error
	Copy(ctx context.Context, src, dst string) error
	Move(ctx context.Context, src, dst string) error
	Delete(ctx context.Context, path string) error
	IsDir(ctx context.Context, path string) (bool, error)
	Mkdir(ctx context.Context, dir string, recursive bool) error
	Rmdir(ctx context.Context, dir string) error
	GetProperties(ctx context.Context, path string) (webdav.Properties, error)
	GetProperty(ctx context.Context, path, name string) (string, error)
}

var _ replicator = (*webdav.Client)(nil)

// run executes one one-shot command.
func run(ctx context.Context, client replicator, command string, args []string, stdin io.Reader, stdout io.Writer) error {
	switch command {
	case "put":
		if len(args) != 2 {
			return fmt.Errorf("%w: put needs <remote> <local|->", errUsage)
		}
		if args[1] == "-" {
			return client.PutStream(ctx, args[0], stdin)
		}
		return client.PutFile(ctx, args[0], args[1])

	case "get":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("%w: get needs <remote> [local]", errUsage)
		}
		data, err := client.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if len(args) == 2 {
			return os.WriteFile(args[1], data, 0o644) //nolint:gosec // user-chosen output file
		}
		_, err = stdout.Write(data)
		return err

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("%w: delete needs <remote>", errUsage)
		}
		return client.Delete(ctx, args[0])

	case "mkdir":
		fs := flag.NewFlagSet("mkdir", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		recursive := fs.Bool("recursive", true, "create missing parent directories")
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: mkdir needs <dir>", errUsage)
		}
		return client.Mkdir(ctx, fs.Arg(0), *recursive)

	case "rmdir":
		if len(args) != 1 {
			return fmt.Errorf("%w: rmdir needs <dir>", errUsage)
		}
		return client.Rmdir(ctx, args[0])

	case "copy", "move":
		if len(args) != 2 {
			return fmt.Errorf("%w: %s needs <src> <dst>", errUsage, command)
		}
		if command == "move" {
			return client.Move(ctx, args[0], args[1])
		}
		return client.Copy(ctx, args[0], args[1])

	case "ping":
		if len(args) != 0 {
			return fmt.Errorf("%w: ping takes no arguments", errUsage)
		}
		return client.Ping(ctx)

	case "exists":
		if len(args) != 1 {
			return fmt.Errorf("%w: exists needs <remote>", errUsage)
		}
		exists, err := client.Exists(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(stdout, map[string]interface{}{"path": webdav.FilePath(args[0]), "exists": exists})

	case "isdir":
		if len(args) != 1 {
			return fmt.Errorf("%w: isdir needs <remote>", errUsage)
		}
		isDir, err := client.IsDir(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(stdout, map[string]interface{}{"path": webdav.DirPath(args[0]), "is_dir": isDir})

	case "propget":
		switch len(args) {
		case 1:
			props, err := client.GetProperties(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(stdout, props)
		case 2:
			value, err := client.GetProperty(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(stdout, map[string]string{args[1]: value})
		default:
			return fmt.Errorf("%w: propget needs <remote> [name]", errUsage)
		}

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
