package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"

	"authenticate-me/internal/model"
	"authenticate-me/pkg/apierror"
)

const (
	CSRFSecretCookieName   = "_csrf"
	CSRFReadableCookieName = "XSRF-TOKEN"

	csrfSecretSize = 32
)

const csrfContextKey contextKey = "csrf_secret"

// Headers a client may echo the readable token in.
var csrfHeaders = []string{"XSRF-TOKEN", "X-XSRF-TOKEN", "CSRF-Token", "X-CSRF-Token"}

// CSRFGuard implements the double-submit pattern: an HTTP-only secret cookie
// plus a readable token derived from it that unsafe requests must echo back
// in a header.
type CSRFGuard struct {
	codec      *securecookie.SecureCookie
	cookies    CookiePolicy
	writeError ErrorWriter
}

func NewCSRFGuard(hashKey []byte, cookies CookiePolicy, writeError ErrorWriter) *CSRFGuard {
	codec := securecookie.New(hashKey, nil)
	codec.MaxAge(0)

	return &CSRFGuard{codec: codec, cookies: cookies, writeError: orDefault(writeError)}
}

// Handler mints the secret cookie on first contact and rejects unsafe
// requests whose header token does not match it.
func (g *CSRFGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret, ok := g.readSecret(r)
		if !ok {
			var err error
			secret, err = g.mintSecret(w)
			if err != nil {
				g.writeError(w, r, err)
				return
			}
		}

		r = r.WithContext(context.WithValue(r.Context(), csrfContextKey, secret))

		if !isSafeMethod(r.Method) && !ok {
			g.reject(w, r, "no secret cookie")
			return
		}
		if !isSafeMethod(r.Method) && !verifyCSRFToken(secret, headerToken(r)) {
			g.reject(w, r, "token mismatch")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetReadableToken sets the XSRF-TOKEN cookie for the current secret and
// returns the token. It must run behind Handler.
func (g *CSRFGuard) SetReadableToken(w http.ResponseWriter, r *http.Request) (string, error) {
	token, err := CSRFToken(r)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFReadableCookieName,
		Value:    token,
		Path:     "/",
		Secure:   g.cookies.Secure,
		SameSite: g.cookies.SameSite,
	})
	return token, nil
}

// CSRFToken derives a fresh readable token from the request's secret.
func CSRFToken(r *http.Request) (string, error) {
	secret, ok := r.Context().Value(csrfContextKey).([]byte)
	if !ok {
		return "", model.ErrInvalidCSRFToken
	}
	return signCSRFToken(secret, rand.Text()), nil
}

func (g *CSRFGuard) readSecret(r *http.Request) ([]byte, bool) {
	cookie, err := r.Cookie(CSRFSecretCookieName)
	if err != nil {
		return nil, false
	}

	var secret []byte
	if err := g.codec.Decode(CSRFSecretCookieName, cookie.Value, &secret); err != nil || len(secret) != csrfSecretSize {
		return nil, false
	}
	return secret, true
}

func (g *CSRFGuard) mintSecret(w http.ResponseWriter) ([]byte, error) {
	secret := make([]byte, csrfSecretSize)
	_, _ = rand.Read(secret)

	encoded, err := g.codec.Encode(CSRFSecretCookieName, secret)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFSecretCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.cookies.Secure,
		SameSite: g.cookies.SameSite,
	})
	return secret, nil
}

func (g *CSRFGuard) reject(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Warn("csrf check failed", "method", r.Method, "path", r.URL.Path, "reason", reason)
	g.writeError(w, r, apierror.Forbidden(model.ErrInvalidCSRFToken.Error()))
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func headerToken(r *http.Request) string {
	for _, name := range csrfHeaders {
		if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// A token is salt "-" base64url(HMAC-SHA256(secret, salt)).
func signCSRFToken(secret []byte, salt string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(salt))
	return salt + "-" + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verifyCSRFToken(secret []byte, token string) bool {
	salt, _, ok := strings.Cut(token, "-")
	if !ok || salt == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signCSRFToken(secret, salt)), []byte(token)) == 1
}
