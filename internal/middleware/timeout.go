package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"authenticate-me/internal/model"
)

// Timeout bounds each request with http.TimeoutHandler. When the deadline
// passes the client gets the standard error envelope with status 503.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	const msg = "The request timed out."
	body, _ := json.Marshal(model.ErrorResponse{
		Title:   "Service Unavailable",
		Message: msg,
		Errors:  []string{msg},
		Status:  http.StatusServiceUnavailable,
	})

	return func(next http.Handler) http.Handler {
		h := http.TimeoutHandler(next, timeout, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(&timeoutResponseWriter{ResponseWriter: w}, r)
		})
	}
}

// timeoutResponseWriter labels the TimeoutHandler body as JSON. On success
// the inner handler's headers are copied over before WriteHeader, so its own
// Content-Type wins.
type timeoutResponseWriter struct {
	http.ResponseWriter
}

func (w *timeoutResponseWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *timeoutResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
