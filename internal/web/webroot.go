// SPDX-License-Identifier: MIT
package web

import (
	"os"
	"path/filepath"
	"strings"

	"vsthost/internal/config"
)

// FindWebRoot locates the web UI asset directory. It walks up from the
// current working directory and then from the executable directory,
// checking webui/dist/index.html before webui/src/index.html at each of
// up to config.WebRootSearchDepth levels; the first match wins. Returns
// "" when nothing is found. Packaged installs should pass an explicit
// root instead of relying on this search.
func FindWebRoot() string {
	if cwd, err := os.Getwd(); err == nil {
		if root := searchWebRootFrom(cwd); root != "" {
			return root
		}
	}
	if exe, err := os.Executable(); err == nil {
		if root := searchWebRootFrom(filepath.Dir(exe)); root != "" {
			return root
		}
	}
	return ""
}

func searchWebRootFrom(dir string) string {
	for i := 0; i < config.WebRootSearchDepth; i++ {
		for _, sub := range []string{"dist", "src"} {
			candidate := filepath.Join(dir, "webui", sub)
			if fileExists(filepath.Join(candidate, "index.html")) {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// mimeTypeFor maps a request path's extension to a MIME type. Unknown
// extensions get application/octet-stream.
func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".js", ".mjs":
		return "text/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	}
	return "application/octet-stream"
}
