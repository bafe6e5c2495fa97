package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"authenticate-me/internal/middleware"
	"authenticate-me/internal/model"
	"authenticate-me/pkg/apierror"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// NewErrorWriter returns the terminal error formatter. Every failure leaves
// the service through it as {title, message, errors, status}; the stack is
// attached only outside production.
func NewErrorWriter(production bool) middleware.ErrorWriter {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		body := toErrorResponse(err)

		if body.Status >= http.StatusInternalServerError {
			slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		}

		if !production {
			stack := fmt.Sprintf("%+v", err)
			body.Stack = &stack
		}

		writeJSON(w, body.Status, body)
	}
}

func toErrorResponse(err error) model.ErrorResponse {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, model.ErrUserNotFound):
		apiErr = apierror.NotFound()
	case errors.Is(err, model.ErrInvalidCSRFToken):
		apiErr = apierror.Forbidden(model.ErrInvalidCSRFToken.Error())
	default:
		apiErr = apierror.New("Server Error", "Server Error", []string{"Server Error"}, http.StatusInternalServerError)
	}

	return model.ErrorResponse{
		Title:   apiErr.Title,
		Message: apiErr.Message,
		Errors:  apiErr.Errors,
		Status:  apiErr.Status,
	}
}

// NotFound answers every unmatched route.
func NotFound(writeError middleware.ErrorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, apierror.NotFound())
	}
}

// decodeJSON treats an empty body as an empty object so that the request
// validators report the missing fields. Bodies over maxBodyBytes are
// rejected with 413 rather than reported as malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierror.PayloadTooLarge("1 MB")
	}
	return apierror.BadRequest([]string{"Request body must be valid JSON."})
}
