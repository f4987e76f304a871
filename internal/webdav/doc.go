// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

/*
Package webdav implements a WebDAV client that keeps a fixed set of servers
identical by replicating every write to all of them.

# Reads and writes

Reads (Exists, Get, IsDir, GetProperties) go to one server chosen uniformly
at random. There is no fallback: if that server fails the read fails.

Writes fan out to every server, sequentially in server order or
concurrently (Options.Parallel). The fan-out always waits for every request.
Each server's status is classified with the operation's acceptance table:

	Operation  Success    Benign  Retryable
	PUT        200, 201   204     403, 404, 409
	COPY       201        -       -
	MOVE       201, 204   -       -
	DELETE     200, 204   404     -
	MKCOL      201        405     -
	RMDIR      204        -       -

A single unlisted status fails the whole operation with *OperationError.
There is no rollback: servers that accepted the write keep it.

# Directories

With AutoCreateDirectories enabled a PUT that comes back Retryable creates
every missing parent (one MKCOL fan-out per segment, shortest first) and is
retried exactly once. COPY and MOVE create the destination parent before the
request is sent. Delete refuses directories with ErrIsDirectory; use Rmdir.

# Transport

Requests go through a Transport. NewFromConfig stacks HTTPTransport, an
optional RateLimitedTransport and one gobreaker circuit per server
(BreakerTransport). A request that yields no HTTP status (refused
connection, timeout, open circuit) is a *TransportError and fails the
fan-out once every outstanding request has finished.

# Example

	client, err := webdav.New(webdav.Options{
		Servers:               []string{"http://dav1/files", "http://dav2/files"},
		Parallel:              true,
		AutoCreateDirectories: true,
	})
	if err != nil {
		return err
	}
	if err := client.Put(ctx, "reports/q3.pdf", data); err != nil {
		return err
	}
*/
package webdav
