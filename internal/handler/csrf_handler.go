package handler

import (
	"net/http"

	"authenticate-me/internal/middleware"
)

type csrfTokenSetter interface {
	SetReadableToken(w http.ResponseWriter, r *http.Request) (string, error)
}

type CSRFHandler struct {
	tokens     csrfTokenSetter
	writeError middleware.ErrorWriter
}

func NewCSRFHandler(tokens csrfTokenSetter, writeError middleware.ErrorWriter) *CSRFHandler {
	return &CSRFHandler{tokens: tokens, writeError: writeError}
}

// Restore handles GET /api/csrf/restore, registered outside production only.
func (h *CSRFHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if _, err := h.tokens.SetReadableToken(w, r); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}
