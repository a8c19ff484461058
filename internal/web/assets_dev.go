//go:build dev

// Package web serves the static application shell from disk so stylesheet
// edits show up without a rebuild.
package web

import "net/http"

// Handler serves the shell from the working tree.
func Handler() http.Handler {
	return http.FileServer(http.Dir("./internal/web/static"))
}
