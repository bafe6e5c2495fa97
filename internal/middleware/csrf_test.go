package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCSRFKey = []byte("0123456789abcdef0123456789abcdef")

func newTestGuard() *CSRFGuard {
	return NewCSRFGuard(testCSRFKey, NewCookiePolicy(false, 0), nil)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// handshake performs a GET that mints the secret cookie and issues a readable token.
func handshake(t *testing.T, guard *CSRFGuard) (*http.Cookie, string) {
	t.Helper()

	var token string
	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		token, err = guard.SetReadableToken(w, r)
		require.NoError(t, err)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/csrf/restore", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	secret := findCookie(rec, CSRFSecretCookieName)
	require.NotNil(t, secret)
	assert.True(t, secret.HttpOnly)

	readable := findCookie(rec, CSRFReadableCookieName)
	require.NotNil(t, readable)
	assert.False(t, readable.HttpOnly)
	assert.Equal(t, token, readable.Value)

	return secret, token
}

func TestCSRFSafeMethodsAreNotGated(t *testing.T) {
	guard := newTestGuard()
	reached := 0
	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached++ }))

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, "/api/session", nil))
		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.NotNil(t, findCookie(rec, CSRFSecretCookieName), method)
	}
	assert.Equal(t, 3, reached)
}

func TestCSRFRejectsUnsafeWithoutToken(t *testing.T) {
	guard := newTestGuard()
	secret, _ := handshake(t, guard)

	reached := false
	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true }))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/session", strings.NewReader(`{}`))
		req.AddCookie(secret)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, method)
		assert.Contains(t, rec.Body.String(), `"message":"invalid csrf token"`)
	}
	assert.False(t, reached)
}

func TestCSRFAcceptsMatchingToken(t *testing.T) {
	guard := newTestGuard()
	secret, token := handshake(t, guard)

	reached := 0
	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached++ }))

	for _, header := range csrfHeaders {
		req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
		req.AddCookie(secret)
		req.Header.Set(header, token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, header)
	}
	assert.Equal(t, len(csrfHeaders), reached)
}

func TestCSRFRejectsForeignOrForgedTokens(t *testing.T) {
	guard := newTestGuard()
	secret, token := handshake(t, guard)
	_, otherToken := handshake(t, guard)

	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	cases := map[string]func(*http.Request){
		"token from another secret": func(r *http.Request) {
			r.AddCookie(secret)
			r.Header.Set("XSRF-TOKEN", otherToken)
		},
		"garbage token": func(r *http.Request) {
			r.AddCookie(secret)
			r.Header.Set("XSRF-TOKEN", "not-a-token")
		},
		"missing secret cookie": func(r *http.Request) {
			r.Header.Set("XSRF-TOKEN", token)
		},
		"tampered secret cookie": func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CSRFSecretCookieName, Value: secret.Value + "x"})
			r.Header.Set("XSRF-TOKEN", token)
		},
		"cookie signed with another key": func(r *http.Request) {
			other := NewCSRFGuard([]byte("fedcba9876543210fedcba9876543210"), NewCookiePolicy(false, 0), nil)
			foreign, foreignToken := handshake(t, other)
			r.AddCookie(foreign)
			r.Header.Set("XSRF-TOKEN", foreignToken)
		},
	}

	for name, prepare := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
		prepare(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, name)
	}
}

func TestCSRFTokensVaryPerIssue(t *testing.T) {
	guard := newTestGuard()
	secret, first := handshake(t, guard)

	var second string
	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		second, err = CSRFToken(r)
		require.NoError(t, err)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(secret)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, first, second)

	post := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	post.AddCookie(secret)
	post.Header.Set("X-CSRF-Token", second)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, post)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFTokenOutsideGuard(t *testing.T) {
	_, err := CSRFToken(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Error(t, err)
}
