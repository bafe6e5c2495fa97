package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"authenticate-me/internal/config"
	"authenticate-me/internal/handler"
	"authenticate-me/internal/middleware"
)

type Handlers struct {
	Session *handler.SessionHandler
	User    *handler.UserHandler
	CSRF    *handler.CSRFHandler
	// Static is only set in production.
	Static *handler.StaticHandler
	// Health pings the database; nil reports healthy.
	Health func(ctx context.Context) error
}

type Middlewares struct {
	Session    *middleware.SessionMiddleware
	CSRF       *middleware.CSRFGuard
	WriteError middleware.ErrorWriter
}

func New(cfg *config.Config, mw Middlewares, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(mw.WriteError))
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	if !cfg.IsProduction() {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}

	notFound := handler.NotFound(mw.WriteError)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if h.Health != nil {
			if err := h.Health(req.Context()); err != nil {
				slog.Error("health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		// Timeout buffers headers, so every cookie must be set inside it.
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(mw.CSRF.Handler)

		r.Route("/api", func(api chi.Router) {
			api.Route("/session", func(session chi.Router) {
				session.Post("/", h.Session.Login)
				session.Delete("/", h.Session.Logout)
				session.With(mw.Session.Restore).Get("/", h.Session.Get)
			})

			api.Post("/users", h.User.Signup)

			if !cfg.IsProduction() {
				api.Get("/csrf/restore", h.CSRF.Restore)
			}
		})

		if h.Static != nil {
			r.Get("/*", h.Static.ServeHTTP)
		}
	})

	return r
}
