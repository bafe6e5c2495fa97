package apierror

import (
	"fmt"
	"net/http"
	"strings"
)

// APIError is the single error shape every handler failure is reduced to.
type APIError struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	Status  int      `json:"status"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Title, e.Message, strings.Join(e.Errors, "; "))
	}

	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func New(title string, message string, errs []string, status int) *APIError {
	if errs == nil {
		errs = []string{}
	}
	return &APIError{Title: title, Message: message, Errors: errs, Status: status}
}

func Validation(errs []string) *APIError {
	return New("Validation error", "Validation error", errs, http.StatusBadRequest)
}

func BadRequest(errs []string) *APIError {
	return New("Bad request.", "Bad Request.", errs, http.StatusBadRequest)
}

func PayloadTooLarge(limit string) *APIError {
	msg := "Request body must be " + limit + " or smaller."
	return New("Payload Too Large", "Payload Too Large", []string{msg}, http.StatusRequestEntityTooLarge)
}

func LoginFailed() *APIError {
	return New("Login failed", "Login failed", []string{"The provided credentials were invalid."}, http.StatusUnauthorized)
}

func Unauthorized() *APIError {
	return New("Unauthorized", "Unauthorized", []string{"Unauthorized"}, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return New("Forbidden", message, []string{message}, http.StatusForbidden)
}

func NotFound() *APIError {
	const msg = "The requested resource couldn't be found."
	return New("Resource Not Found", msg, []string{msg}, http.StatusNotFound)
}
