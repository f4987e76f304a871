// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/davrep/internal/logging"
	"github.com/tomtom215/davrep/internal/metrics"
)

func TestNew_NoServers(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, ErrNoServers) {
		t.Fatalf("New() error = %v, want ErrNoServers", err)
	}
}

func TestClient_ServersIsCopy(t *testing.T) {
	client := newTestClient(t, newCluster(serverA, serverB), false, true)
	servers := client.Servers()
	servers[0] = "mutated"
	if client.Servers()[0] != serverA {
		t.Error("Servers() exposed internal slice")
	}
}

func TestClient_Put(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(map[bool]string{false: "sequential", true: "parallel"}[parallel], func(t *testing.T) {
			c := newCluster(serverA, serverB)
			client := newTestClient(t, c, parallel, true)

			if err := client.Put(context.Background(), "notes.txt", []byte("hello")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			for _, server := range []string{serverA, serverB} {
				if got := string(c.server(server).files["/notes.txt"]); got != "hello" {
					t.Errorf("%s content = %q, want %q", server, got, "hello")
				}
			}

			// Overwriting answers 204 everywhere, which is benign.
			if err := client.Put(context.Background(), "/notes.txt", []byte("again")); err != nil {
				t.Fatalf("second Put() error = %v", err)
			}
		})
	}
}

func TestClient_Put_CreatesMissingParents(t *testing.T) {
	c := newCluster(serverA, serverB)
	client := newTestClient(t, c, false, true)

	retries := metrics.WebDAVDirectoryRetries.WithLabelValues(string(OpPut))
	before := testutil.ToFloat64(retries)

	if err := client.Put(context.Background(), "/a/b/c.txt", []byte("data")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	want := []string{
		"PUT " + serverA + " /a/b/c.txt",
		"PUT " + serverB + " /a/b/c.txt",
		"MKCOL " + serverA + " /a/",
		"MKCOL " + serverB + " /a/",
		"MKCOL " + serverA + " /a/b/",
		"MKCOL " + serverB + " /a/b/",
		"PUT " + serverA + " /a/b/c.txt",
		"PUT " + serverB + " /a/b/c.txt",
	}
	if got := c.recorded(false); !equalStrings(got, want) {
		t.Errorf("requests =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if got := testutil.ToFloat64(retries) - before; got != 1 {
		t.Errorf("directory retries delta = %v, want 1", got)
	}
}

func TestClient_Put_MixedRetryable(t *testing.T) {
	c := newCluster(serverA, serverB)
	// A already has the directory, B does not.
	c.server(serverA).dirs["/d/"] = true
	client := newTestClient(t, c, false, true)

	if err := client.Put(context.Background(), "/d/f.txt", []byte("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	// MKCOL on A answered 405, the retried PUT on A answered 204.
	if got := string(c.server(serverB).files["/d/f.txt"]); got != "x" {
		t.Errorf("B content = %q, want %q", got, "x")
	}
	if n := c.count(http.MethodPut); n != 4 {
		t.Errorf("PUT count = %d, want 4", n)
	}
}

func TestClient_Put_AutoCreateDisabled(t *testing.T) {
	c := newCluster(serverA, serverB)
	client := newTestClient(t, c, false, false)

	err := client.Put(context.Background(), "/missing/f.txt", []byte("x"))
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Put() error = %v, want *OperationError", err)
	}
	if opErr.Op != OpPut || opErr.StatusOf(serverA) != http.StatusConflict {
		t.Errorf("OperationError = %+v", opErr)
	}
	if n := c.count("MKCOL"); n != 0 {
		t.Errorf("MKCOL count = %d, want 0", n)
	}
	if n := c.count(http.MethodPut); n != 2 {
		t.Errorf("PUT count = %d, want 2 (no retry)", n)
	}
}

func TestClient_Put_RetriesOnlyOnce(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverB).force["PUT /d/f.txt"] = http.StatusConflict
	client := newTestClient(t, c, false, true)

	err := client.Put(context.Background(), "/d/f.txt", []byte("x"))
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Put() error = %v, want *OperationError", err)
	}
	if n := c.count(http.MethodPut); n != 4 {
		t.Errorf("PUT count = %d, want 4", n)
	}
	// No rollback: A keeps the file.
	if _, ok := c.server(serverA).files["/d/f.txt"]; !ok {
		t.Error("A lost the file written before the failure")
	}
}

func TestClient_Put_DirectoryCreationFails(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverB).force["MKCOL /d/"] = http.StatusForbidden
	client := newTestClient(t, c, false, true)

	err := client.Put(context.Background(), "/d/f.txt", []byte("x"))
	if !errors.Is(err, ErrDirectoryNotCreated) {
		t.Fatalf("Put() error = %v, want ErrDirectoryNotCreated", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != OpMkdir || opErr.Path != "/d/" {
		t.Errorf("wrapped OperationError = %+v", opErr)
	}
	if n := c.count(http.MethodPut); n != 2 {
		t.Errorf("PUT count = %d, want 2 (no retry after failed MKCOL)", n)
	}
}

func TestClient_Put_HardFailure(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverB).force["PUT /f.txt"] = http.StatusInternalServerError
	client := newTestClient(t, c, true, true)

	err := client.Put(context.Background(), "/f.txt", []byte("x"))
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Put() error = %v, want *OperationError", err)
	}
	want := "webdav: file not created: /f.txt (" + serverB + "=500)"
	if opErr.Error() != want {
		t.Errorf("Error() = %q, want %q", opErr.Error(), want)
	}
	if n := c.count("MKCOL"); n != 0 {
		t.Errorf("MKCOL count = %d, want 0", n)
	}
}

func TestClient_Put_TransportError(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.down[serverB] = errors.New("dial tcp: connection refused")
	client := newTestClient(t, c, false, true)

	err := client.Put(context.Background(), "/f.txt", []byte("x"))
	var te *TransportError
	if !errors.As(err, &te) || te.Server != serverB {
		t.Fatalf("Put() error = %v, want TransportError for B", err)
	}
	if _, ok := c.server(serverA).files["/f.txt"]; !ok {
		t.Error("A was not contacted before the error surfaced")
	}
}

func TestClient_PutStream(t *testing.T) {
	c := newCluster(serverA, serverB)
	client := newTestClient(t, c, true, true)

	if err := client.PutStream(context.Background(), "/s.txt", strings.NewReader("streamed")); err != nil {
		t.Fatalf("PutStream() error = %v", err)
	}
	for _, server := range []string{serverA, serverB} {
		if got := string(c.server(server).files["/s.txt"]); got != "streamed" {
			t.Errorf("%s content = %q", server, got)
		}
	}
}

func TestClient_PutFile(t *testing.T) {
	local := filepath.Join(t.TempDir(), "upload.bin")
	if err := os.WriteFile(local, []byte("from disk"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := newCluster(serverA, serverB)
	client := newTestClient(t, c, true, true)

	if err := client.PutFile(context.Background(), "/up/upload.bin", local); err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}
	for _, server := range []string{serverA, serverB} {
		if got := string(c.server(server).files["/up/upload.bin"]); got != "from disk" {
			t.Errorf("%s content = %q", server, got)
		}
	}

	if err := client.PutFile(context.Background(), "/x", filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("PutFile() with missing local file succeeded")
	}
	if err := client.PutFile(context.Background(), "/x", t.TempDir()); !errors.Is(err, ErrIsDirectory) {
		t.Errorf("PutFile() with directory error = %v, want ErrIsDirectory", err)
	}
}

func TestClient_Copy(t *testing.T) {
	c := newCluster(serverA, serverB)
	for _, server := range []string{serverA, serverB} {
		c.server(server).files["/src.txt"] = []byte("orig")
	}
	client := newTestClient(t, c, false, true)

	if err := client.Copy(context.Background(), "/src.txt", "/backup/2026/src.txt"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	methods := c.methods()
	wantMethods := []string{"MKCOL", "MKCOL", "MKCOL", "MKCOL", "COPY", "COPY"}
	if !equalStrings(methods, wantMethods) {
		t.Errorf("methods = %v, want %v", methods, wantMethods)
	}

	copyHeaders := c.headers[4:]
	for i, server := range []string{serverA, serverB} {
		if got, want := copyHeaders[i].Get("Destination"), server+"/backup/2026/src.txt"; got != want {
			t.Errorf("%s Destination = %q, want %q", server, got, want)
		}
		if got := copyHeaders[i].Get("Overwrite"); got != "T" {
			t.Errorf("%s Overwrite = %q, want T", server, got)
		}
		dav := c.server(server)
		if string(dav.files["/backup/2026/src.txt"]) != "orig" || dav.files["/src.txt"] == nil {
			t.Errorf("%s state after copy: %v", server, dav.files)
		}
	}

	// COPY onto an existing target answers 204, which COPY does not accept.
	c.reset()
	err := client.Copy(context.Background(), "/src.txt", "/backup/2026/src.txt")
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != OpCopy {
		t.Errorf("second Copy() error = %v, want copy OperationError", err)
	}
}

func TestClient_Move(t *testing.T) {
	c := newCluster(serverA, serverB)
	for _, server := range []string{serverA, serverB} {
		c.server(server).files["/old.txt"] = []byte("v")
		c.server(server).files["/new.txt"] = []byte("stale")
	}
	client := newTestClient(t, c, true, true)

	// Root parent: no MKCOL; overwrite answers 204, which MOVE accepts.
	if err := client.Move(context.Background(), "old.txt", "new.txt"); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if n := c.count("MKCOL"); n != 0 {
		t.Errorf("MKCOL count = %d, want 0", n)
	}
	for _, server := range []string{serverA, serverB} {
		dav := c.server(server)
		if _, ok := dav.files["/old.txt"]; ok {
			t.Errorf("%s still has the source", server)
		}
		if string(dav.files["/new.txt"]) != "v" {
			t.Errorf("%s target = %q", server, dav.files["/new.txt"])
		}
	}
}

func TestClient_Move_NoAutoCreate(t *testing.T) {
	c := newCluster(serverA, serverB)
	for _, server := range []string{serverA, serverB} {
		c.server(server).files["/old.txt"] = []byte("v")
	}
	client := newTestClient(t, c, false, false)

	err := client.Move(context.Background(), "/old.txt", "/nowhere/new.txt")
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.StatusOf(serverA) != http.StatusConflict {
		t.Fatalf("Move() error = %v, want 409 OperationError", err)
	}
	if n := c.count("MOVE"); n != 2 {
		t.Errorf("MOVE count = %d, want 2 (no retry)", n)
	}
}

func TestClient_Delete(t *testing.T) {
	c := newCluster(serverA, serverB)
	for _, server := range []string{serverA, serverB} {
		c.server(server).files["/f.txt"] = []byte("x")
	}
	client := newTestClient(t, c, false, true)

	if err := client.Delete(context.Background(), "/f.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	wantMethods := []string{"PROPFIND", "DELETE", "DELETE"}
	if got := c.methods(); !equalStrings(got, wantMethods) {
		t.Errorf("methods = %v, want %v", got, wantMethods)
	}
	if got := c.headers[0].Get("Depth"); got != "0" {
		t.Errorf("PROPFIND Depth = %q, want 0", got)
	}

	// Deleting again is benign everywhere.
	if err := client.Delete(context.Background(), "/f.txt"); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestClient_Delete_Directory(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverA).dirs["/dir/"] = true
	client := newTestClient(t, c, false, true)

	err := client.Delete(context.Background(), "/dir")
	if !errors.Is(err, ErrIsDirectory) {
		t.Fatalf("Delete() error = %v, want ErrIsDirectory", err)
	}
	if n := c.count(http.MethodDelete); n != 0 {
		t.Errorf("DELETE count = %d, want 0", n)
	}
}

func TestClient_Delete_PartialFailure(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverA).files["/f.txt"] = []byte("x")
	c.server(serverB).files["/f.txt"] = []byte("x")
	c.server(serverB).force["DELETE /f.txt"] = http.StatusInternalServerError
	client := newTestClient(t, c, true, true)

	err := client.Delete(context.Background(), "/f.txt")
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("Delete() error = %v, want *OperationError", err)
	}
	if opErr.StatusOf(serverA) != http.StatusNoContent || opErr.StatusOf(serverB) != http.StatusInternalServerError {
		t.Errorf("statuses = %v", opErr.Responses.Statuses())
	}
	if _, ok := c.server(serverA).files["/f.txt"]; ok {
		t.Error("A still has the file")
	}
}

func TestClient_IsDir(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverA).dirs["/docs/"] = true
	c.server(serverA).files["/readme.txt"] = []byte("r")
	client := newTestClient(t, c, false, true)

	tests := []struct {
		path string
		want bool
	}{
		{"/docs", true},
		{"docs/", true},
		{"/", true},
		{"/readme.txt", false},
		{"/missing", false},
	}
	for _, tt := range tests {
		got, err := client.IsDir(context.Background(), tt.path)
		if err != nil {
			t.Fatalf("IsDir(%q) error = %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("IsDir(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	c.down[serverA] = errors.New("timeout")
	if _, err := client.IsDir(context.Background(), "/docs"); err == nil {
		t.Error("IsDir() with unreachable server returned nil error")
	}
}

func TestClient_Exists(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverA).files["/here.txt"] = []byte("h")
	c.server(serverA).force["HEAD /broken"] = http.StatusInternalServerError
	client := newTestClient(t, c, false, true)

	tests := map[string]bool{
		"/here.txt": true,
		"here.txt/": true,
		"/gone.txt": false,
		"/broken":   false,
	}
	for path, want := range tests {
		got, err := client.Exists(context.Background(), path)
		if err != nil {
			t.Fatalf("Exists(%q) error = %v", path, err)
		}
		if got != want {
			t.Errorf("Exists(%q) = %v, want %v", path, got, want)
		}
	}
	if n := len(c.recorded(false)); n != len(tests) {
		t.Errorf("requests = %d, want one per call", n)
	}

	c.down[serverA] = errors.New("refused")
	if _, err := client.Exists(context.Background(), "/here.txt"); err == nil {
		t.Error("Exists() with unreachable server returned nil error")
	}
}

func TestClient_Get(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverA).files["/doc.txt"] = []byte("content")
	c.server(serverA).force["GET /locked"] = http.StatusLocked
	client := newTestClient(t, c, false, true)

	data, err := client.Get(context.Background(), "/doc.txt")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "content" {
		t.Errorf("Get() = %q, want %q", data, "content")
	}

	if _, err := client.Get(context.Background(), "/absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
	}

	_, err = client.Get(context.Background(), "/locked")
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.StatusOf(serverA) != http.StatusLocked {
		t.Errorf("Get(locked) error = %v, want OperationError with 423", err)
	}
}

func TestClient_GetProperties(t *testing.T) {
	c := newCluster(serverA, serverB)
	c.server(serverA).files["/doc.txt"] = []byte("12345")
	client := newTestClient(t, c, false, true)

	props, err := client.GetProperties(context.Background(), "/doc.txt")
	if err != nil {
		t.Fatalf("GetProperties() error = %v", err)
	}
	if props[PropContentType] != "text/plain" || props[PropContentLength] != "5" {
		t.Errorf("GetProperties() = %v", props)
	}
	if props["executable"] != "F" {
		t.Errorf("executable = %q, want F", props["executable"])
	}

	value, err := client.GetProperty(context.Background(), "/doc.txt", PropContentLength)
	if err != nil || value != "5" {
		t.Errorf("GetProperty() = %q, %v", value, err)
	}

	if _, err := client.GetProperty(context.Background(), "/doc.txt", "displayname"); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("GetProperty(displayname) error = %v, want ErrPropertyNotFound", err)
	}
	if _, err := client.GetProperty(context.Background(), "/absent", PropETag); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProperty(absent) error = %v, want ErrNotFound", err)
	}
}

func TestClient_Mkdir(t *testing.T) {
	t.Run("recursive", func(t *testing.T) {
		c := newCluster(serverA, serverB)
		client := newTestClient(t, c, false, false)

		if err := client.Mkdir(context.Background(), "/x/y", true); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}
		want := []string{
			"MKCOL " + serverA + " /x/",
			"MKCOL " + serverB + " /x/",
			"MKCOL " + serverA + " /x/y/",
			"MKCOL " + serverB + " /x/y/",
		}
		if got := c.recorded(false); !equalStrings(got, want) {
			t.Errorf("requests = %v, want %v", got, want)
		}

		// Everything exists now: every MKCOL answers 405.
		if err := client.Mkdir(context.Background(), "/x/y", true); err != nil {
			t.Errorf("repeated Mkdir() error = %v", err)
		}
	})

	t.Run("non-recursive missing parent", func(t *testing.T) {
		c := newCluster(serverA, serverB)
		client := newTestClient(t, c, false, true)

		err := client.Mkdir(context.Background(), "/x/y", false)
		var opErr *OperationError
		if !errors.As(err, &opErr) || opErr.Op != OpMkdir {
			t.Fatalf("Mkdir() error = %v, want mkdir OperationError", err)
		}
		if n := c.count("MKCOL"); n != 2 {
			t.Errorf("MKCOL count = %d, want 2", n)
		}
	})

	t.Run("non-recursive", func(t *testing.T) {
		c := newCluster(serverA, serverB)
		client := newTestClient(t, c, true, true)

		if err := client.Mkdir(context.Background(), "top", false); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}
		if !c.server(serverB).dirs["/top/"] {
			t.Error("B is missing /top/")
		}
	})
}

func TestClient_Rmdir(t *testing.T) {
	c := newCluster(serverA, serverB)
	for _, server := range []string{serverA, serverB} {
		c.server(server).dirs["/old/"] = true
		c.server(server).files["/old/f.txt"] = []byte("x")
	}
	client := newTestClient(t, c, false, true)

	if err := client.Rmdir(context.Background(), "/old"); err != nil {
		t.Fatalf("Rmdir() error = %v", err)
	}
	if got := c.recorded(false); got[0] != "DELETE "+serverA+" /old/" {
		t.Errorf("first request = %q", got[0])
	}
	if _, ok := c.server(serverB).files["/old/f.txt"]; ok {
		t.Error("contents survived Rmdir")
	}

	// Only 204 is accepted, so removing it again fails.
	var opErr *OperationError
	if err := client.Rmdir(context.Background(), "/old"); !errors.As(err, &opErr) {
		t.Errorf("second Rmdir() error = %v, want OperationError", err)
	}
}

func TestClient_DuplicateServers(t *testing.T) {
	c := newCluster(serverA)
	client := newTestClient(t, c, false, true, serverA, serverA)

	if err := client.Put(context.Background(), "/dup.txt", []byte("d")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if n := c.count(http.MethodPut); n != 2 {
		t.Errorf("PUT count = %d, want 2", n)
	}
}

func TestClient_Ping(t *testing.T) {
	c := newCluster(serverA, serverB)
	client := newTestClient(t, c, true, true)

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if n := c.count(http.MethodOptions); n != 2 {
		t.Errorf("OPTIONS count = %d, want 2", n)
	}

	c.down[serverB] = errors.New("refused")
	if err := client.Ping(context.Background()); err == nil {
		t.Error("Ping() with unreachable server returned nil error")
	}
}

func TestClient_Setters(t *testing.T) {
	c := newCluster(serverA, serverB)
	client := newTestClient(t, c, false, false)
	rec := &lineRecorder{}

	client.SetParallel(true)
	client.SetAutoCreateDirectories(true)
	client.SetLogger(rec)
	client.SetHeader("X-Client", "davrep")

	if err := client.Put(context.Background(), "/n/f.txt", []byte("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if n := c.count("MKCOL"); n != 2 {
		t.Errorf("MKCOL count = %d, want 2 after enabling auto-create", n)
	}
	if got := c.headers[0].Get("X-Client"); got != "davrep" {
		t.Errorf("X-Client header = %q", got)
	}
	if n := len(rec.all()); n != len(c.recorded(false)) {
		t.Errorf("log lines = %d, want one per request (%d)", n, len(c.recorded(false)))
	}

	client.SetLogger(nil)
	before := len(rec.all())
	_ = client.Ping(context.Background())
	if len(rec.all()) != before {
		t.Error("logging continued after SetLogger(nil)")
	}
}

func TestOperationError_Messages(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpPut, "webdav: file not created: /p"},
		{OpCopy, "webdav: file not copied: /p"},
		{OpMove, "webdav: file not moved: /p"},
		{OpDelete, "webdav: file not deleted: /p"},
		{OpMkdir, "webdav: directory not created: /p"},
		{OpRmdir, "webdav: directory not deleted: /p"},
		{OpIsDir, "webdav: is_dir failed: /p"},
	}
	for _, tt := range tests {
		err := &OperationError{Op: tt.op, Path: "/p"}
		if got := err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.op, got, tt.want)
		}
		if err.StatusOf(serverA) != 0 {
			t.Errorf("%s: StatusOf without responses != 0", tt.op)
		}
	}
}

func TestClient_LookupsLogNormalizedPaths(t *testing.T) {
	buf := &syncBuffer{}
	previous := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(buf))
	t.Cleanup(func() { logging.SetLogger(previous) })

	c := newCluster(serverA)
	c.down[serverA] = errors.New("refused")
	client := newTestClient(t, c, false, false, serverA)
	ctx := context.Background()

	if _, err := client.Exists(ctx, "docs/report.txt"); err == nil {
		t.Fatal("Exists() error = nil with server down")
	}
	if _, err := client.IsDir(ctx, "docs"); err == nil {
		t.Fatal("IsDir() error = nil with server down")
	}

	out := buf.String()
	for _, want := range []string{`"path":"/docs/report.txt"`, `"path":"/docs/"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
