package handler

import (
	"context"
	"net/http"

	"authenticate-me/internal/middleware"
	"authenticate-me/internal/model"
	"authenticate-me/internal/validation"
	"authenticate-me/pkg/apierror"
)

type signupService interface {
	Signup(ctx context.Context, req model.SignupRequest) (model.PublicUser, string, error)
}

type UserHandler struct {
	service    signupService
	cookies    middleware.CookiePolicy
	writeError middleware.ErrorWriter
}

func NewUserHandler(service signupService, cookies middleware.CookiePolicy, writeError middleware.ErrorWriter) *UserHandler {
	return &UserHandler{service: service, cookies: cookies, writeError: writeError}
}

// Signup handles POST /api/users.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload model.SignupRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	if errs := validation.Signup(payload); len(errs) > 0 {
		h.writeError(w, r, apierror.BadRequest(errs))
		return
	}

	user, token, err := h.service.Signup(r.Context(), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.cookies.SetToken(w, token)
	writeJSON(w, http.StatusOK, model.UserResponse{User: user})
}
