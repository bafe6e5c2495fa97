package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"authenticate-me/internal/model"
	"authenticate-me/pkg/apierror"
)

const TokenCookieName = "token"

type sessionRestorer interface {
	RestoreUser(ctx context.Context, token string) (model.PublicUser, error)
}

type contextKey string

const sessionContextKey contextKey = "session"

// session records the outcome of restore for the rest of the request.
type session struct {
	user          model.PublicUser
	authenticated bool
}

// CookiePolicy carries the attributes shared by the cookies this service sets.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
	TokenTTL time.Duration
}

func NewCookiePolicy(production bool, tokenTTL time.Duration) CookiePolicy {
	policy := CookiePolicy{SameSite: http.SameSiteDefaultMode, TokenTTL: tokenTTL}
	if production {
		policy.Secure = true
		policy.SameSite = http.SameSiteLaxMode
	}
	return policy
}

func (p CookiePolicy) SetToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(p.TokenTTL / time.Second),
		Expires:  time.Now().Add(p.TokenTTL),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

func (p CookiePolicy) ClearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

// SessionMiddleware moves each request from Anonymous to Authenticated when
// the token cookie resolves to an existing user.
type SessionMiddleware struct {
	restorer   sessionRestorer
	cookies    CookiePolicy
	writeError ErrorWriter
}

func NewSessionMiddleware(restorer sessionRestorer, cookies CookiePolicy, writeError ErrorWriter) *SessionMiddleware {
	return &SessionMiddleware{restorer: restorer, cookies: cookies, writeError: orDefault(writeError)}
}

// Restore never rejects: a missing, invalid or orphaned token leaves the
// request anonymous and clears the cookie.
func (m *SessionMiddleware) Restore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, m.restore(w, r))
	})
}

// Require restores the session and rejects anonymous requests with 401.
func (m *SessionMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = m.restore(w, r)
		if _, ok := UserFromContext(r.Context()); !ok {
			m.writeError(w, r, apierror.Unauthorized())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionMiddleware) restore(w http.ResponseWriter, r *http.Request) *http.Request {
	if _, done := r.Context().Value(sessionContextKey).(*session); done {
		return r
	}

	state := &session{}

	cookie, err := r.Cookie(TokenCookieName)
	if err == nil && cookie.Value != "" {
		user, restoreErr := m.restorer.RestoreUser(r.Context(), cookie.Value)
		switch {
		case restoreErr == nil:
			state.user = user
			state.authenticated = true
		case errors.Is(restoreErr, model.ErrInvalidToken), errors.Is(restoreErr, model.ErrUserNotFound):
			m.cookies.ClearToken(w)
		default:
			slog.Warn("session restore failed", "path", r.URL.Path, "error", restoreErr.Error())
			m.cookies.ClearToken(w)
		}
	} else if err == nil {
		m.cookies.ClearToken(w)
	}

	return r.WithContext(context.WithValue(r.Context(), sessionContextKey, state))
}

// UserFromContext returns the authenticated user attached by Restore or Require.
func UserFromContext(ctx context.Context) (model.PublicUser, bool) {
	state, ok := ctx.Value(sessionContextKey).(*session)
	if !ok || !state.authenticated {
		return model.PublicUser{}, false
	}
	return state.user, true
}
