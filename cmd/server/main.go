package main

import (
	"log/slog"
	"os"

	"authenticate-me/internal/app"
	"authenticate-me/internal/config"
	"authenticate-me/internal/logger"
)

func main() {
	slog.SetDefault(logger.New(os.Stdout, "info", false))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.IsProduction()))

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
