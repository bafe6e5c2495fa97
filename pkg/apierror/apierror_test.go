package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    *APIError
		status int
		title  string
	}{
		{"validation", Validation([]string{"a"}), http.StatusBadRequest, "Validation error"},
		{"bad request", BadRequest([]string{"a"}), http.StatusBadRequest, "Bad request."},
		{"login failed", LoginFailed(), http.StatusUnauthorized, "Login failed"},
		{"unauthorized", Unauthorized(), http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", Forbidden("invalid csrf token"), http.StatusForbidden, "Forbidden"},
		{"not found", NotFound(), http.StatusNotFound, "Resource Not Found"},
		{"payload too large", PayloadTooLarge("1 MB"), http.StatusRequestEntityTooLarge, "Payload Too Large"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.status, tc.err.Status)
			require.Equal(t, tc.title, tc.err.Title)
			require.NotNil(t, tc.err.Errors)
		})
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("signup: %w", Validation([]string{"username must be unique"}))

	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	require.Equal(t, []string{"username must be unique"}, apiErr.Errors)
	require.Contains(t, wrapped.Error(), "username must be unique")
}

func TestNewNormalizesNilErrors(t *testing.T) {
	t.Parallel()

	err := New("Server Error", "boom", nil, http.StatusInternalServerError)
	require.Equal(t, []string{}, err.Errors)
	require.Equal(t, "Server Error: boom", err.Error())
}
