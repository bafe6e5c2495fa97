package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authenticate-me/internal/config"
	"authenticate-me/internal/database"
	"authenticate-me/internal/handler"
	"authenticate-me/internal/middleware"
	"authenticate-me/internal/repository"
	"authenticate-me/internal/router"
	"authenticate-me/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// userStore is the repository chosen by DB_DRIVER together with its health
// check and teardown.
type userStore struct {
	users  service.UserRepository
	health func(ctx context.Context) error
	close  func()
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	store, err := openUserStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		store.close()
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	credentials := service.NewCredentialStore(store.users, hasher, cfg.GenericSignupConflicts)
	authService, err := service.NewAuthService(credentials, hasher, tokens)
	if err != nil {
		store.close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	if cfg.SeedDemoUser {
		created, err := authService.EnsureDemoUser(ctx)
		if err != nil {
			store.close()
			return nil, fmt.Errorf("failed to seed demo user: %w", err)
		}
		slog.Info("demo user ready", "username", service.DemoUsername, "created", created)
	}

	writeError := handler.NewErrorWriter(cfg.IsProduction())
	cookies := middleware.NewCookiePolicy(cfg.IsProduction(), tokens.TTL())
	csrfGuard := middleware.NewCSRFGuard(cfg.CSRFCookieKey, cookies, writeError)

	handlers := router.Handlers{
		Session: handler.NewSessionHandler(authService, cookies, writeError),
		User:    handler.NewUserHandler(authService, cookies, writeError),
		CSRF:    handler.NewCSRFHandler(csrfGuard, writeError),
		Health:  store.health,
	}
	if cfg.IsProduction() {
		handlers.Static = handler.NewStaticHandler(cfg.StaticDir, csrfGuard, writeError)
	}

	appRouter := router.New(cfg, router.Middlewares{
		Session:    middleware.NewSessionMiddleware(authService, cookies, writeError),
		CSRF:       csrfGuard,
		WriteError: writeError,
	}, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(){store.close},
	}, nil
}

func openUserStore(ctx context.Context, cfg *config.Config) (userStore, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return userStore{}, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return userStore{}, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		slog.Info("database ready", "driver", cfg.DBDriver)
		return userStore{
			users:  repository.NewUserRepository(db.Pool),
			health: db.Health,
			close:  db.Close,
		}, nil

	case config.DriverSQLite:
		slog.Info("opening SQLite database", "file", cfg.DBFile)
		db, err := database.OpenSQLite(ctx, cfg.DBFile)
		if err != nil {
			return userStore{}, fmt.Errorf("failed to open database: %w", err)
		}

		if err := database.Migrate(ctx, db, database.DialectSQLite); err != nil {
			_ = db.Close()
			return userStore{}, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		slog.Info("database ready", "driver", cfg.DBDriver)
		return userStore{
			users:  repository.NewSQLiteUserRepository(db),
			health: db.PingContext,
			close:  func() { closeSQL(db) },
		}, nil

	default:
		return userStore{}, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func closeSQL(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// Handler exposes the routed handler without starting the listener.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Close() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.Close()

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
