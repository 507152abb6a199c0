// SPDX-License-Identifier: MIT
package web

import (
	"os"
	"path/filepath"
	"testing"
)

func mkWebUI(t *testing.T, base, sub string) string {
	t.Helper()
	dir := filepath.Join(base, "webui", sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSearchWebRootPrefersDist(t *testing.T) {
	base := t.TempDir()
	mkWebUI(t, base, "src")
	dist := mkWebUI(t, base, "dist")

	if got := searchWebRootFrom(base); got != dist {
		t.Errorf("got %q, want %q", got, dist)
	}
}

func TestSearchWebRootFallsBackToSrc(t *testing.T) {
	base := t.TempDir()
	src := mkWebUI(t, base, "src")

	if got := searchWebRootFrom(base); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestSearchWebRootWalksUp(t *testing.T) {
	base := t.TempDir()
	dist := mkWebUI(t, base, "dist")

	nested := filepath.Join(base, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := searchWebRootFrom(nested); got != dist {
		t.Errorf("got %q, want %q", got, dist)
	}
}

func TestSearchWebRootNotFound(t *testing.T) {
	if got := searchWebRootFrom(t.TempDir()); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func TestMimeTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/index.html", "text/html; charset=utf-8"},
		{"/app.js", "text/javascript; charset=utf-8"},
		{"/mod.mjs", "text/javascript; charset=utf-8"},
		{"/style.css", "text/css; charset=utf-8"},
		{"/manifest.json", "application/json; charset=utf-8"},
		{"/logo.svg", "image/svg+xml"},
		{"/icon.PNG", "image/png"},
		{"/data.bin", "application/octet-stream"},
		{"/noext", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := mimeTypeFor(tt.path); got != tt.want {
			t.Errorf("mimeTypeFor(%q): got %q, want %q", tt.path, got, tt.want)
		}
	}
}
