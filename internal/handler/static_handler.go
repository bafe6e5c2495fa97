package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"authenticate-me/internal/middleware"
)

// StaticHandler serves the built frontend in production. Existing files are
// served as-is; every other path gets index.html with a fresh XSRF-TOKEN.
type StaticHandler struct {
	dir        string
	files      http.Handler
	tokens     csrfTokenSetter
	writeError middleware.ErrorWriter
}

func NewStaticHandler(dir string, tokens csrfTokenSetter, writeError middleware.ErrorWriter) *StaticHandler {
	return &StaticHandler{
		dir:        dir,
		files:      http.FileServer(http.Dir(dir)),
		tokens:     tokens,
		writeError: writeError,
	}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	if clean != "/" {
		info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(clean)))
		if err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}

	h.Index(w, r)
}

func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(filepath.Join(h.dir, "index.html"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if _, err := h.tokens.SetReadableToken(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, "index.html", info.ModTime(), f)
}
