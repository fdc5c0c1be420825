// Package site serves the embedded student-facing front-end.
package site

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"
)

// IndexPath is where the root redirect sends browsers.
const IndexPath = "/static/index.html"

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

// Register attaches the front-end routes to mux:
//
//	GET /          -> 307 to /static/index.html
//	GET /static/*  -> embedded files
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
	// FileServer redirects */index.html to the directory; serve it directly.
	mux.HandleFunc("GET "+IndexPath, root.HandleIndex)
	mux.HandleFunc("GET /{$}", root.HandleRoot)
}

// RootHandler redirects the bare root to the front-end.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, IndexPath, http.StatusTemporaryRedirect)
}

// HandleIndex serves the embedded index page.
func (h *RootHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(data))
}
