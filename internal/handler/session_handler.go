package handler

import (
	"context"
	"net/http"

	"authenticate-me/internal/middleware"
	"authenticate-me/internal/model"
	"authenticate-me/internal/validation"
	"authenticate-me/pkg/apierror"
)

type loginService interface {
	Login(ctx context.Context, credential string, password string) (model.PublicUser, string, error)
}

type SessionHandler struct {
	service    loginService
	cookies    middleware.CookiePolicy
	writeError middleware.ErrorWriter
}

func NewSessionHandler(service loginService, cookies middleware.CookiePolicy, writeError middleware.ErrorWriter) *SessionHandler {
	return &SessionHandler{service: service, cookies: cookies, writeError: writeError}
}

// Login handles POST /api/session.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if errs := validation.Login(payload); len(errs) > 0 {
		h.writeError(w, r, apierror.BadRequest(errs))
		return
	}

	user, token, err := h.service.Login(r.Context(), payload.Credential, payload.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.cookies.SetToken(w, token)
	writeJSON(w, http.StatusOK, model.UserResponse{User: user})
}

// Logout handles DELETE /api/session. Tokens are stateless, so clearing the
// cookie is all there is to do.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearToken(w)
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Success"})
}

// Get handles GET /api/session and answers {} for anonymous callers.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{User: user})
}
