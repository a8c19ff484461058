//go:build !dev

// Package web serves the static application shell: the page hosting the
// anatomy canvas, its stylesheet, and the installable-app manifest.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed static
var shellFS embed.FS

// Handler serves the embedded shell. Panics if the embedded filesystem is
// corrupted, which cannot happen after a successful compile.
func Handler() http.Handler {
	sub, err := fs.Sub(shellFS, "static")
	if err != nil {
		panic(fmt.Sprintf("web: failed to create sub-filesystem: %v", err))
	}
	return http.FileServer(http.FS(sub))
}
