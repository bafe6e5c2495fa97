package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"authenticate-me/internal/model"
	"authenticate-me/pkg/apierror"
)

// ErrorWriter renders err as the uniform error envelope. The handler package
// supplies the production implementation.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

func orDefault(writeError ErrorWriter) ErrorWriter {
	if writeError != nil {
		return writeError
	}
	return writeAPIError
}

func writeAPIError(w http.ResponseWriter, _ *http.Request, err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierror.New("Server Error", "Server Error", []string{"Server Error"}, http.StatusInternalServerError)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = jsonEncode(w, model.ErrorResponse{
		Title:   apiErr.Title,
		Message: apiErr.Message,
		Errors:  apiErr.Errors,
		Status:  apiErr.Status,
	})
}

func jsonEncode(w http.ResponseWriter, value any) error {
	return json.NewEncoder(w).Encode(value)
}
