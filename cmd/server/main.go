// Package main is the entry point for the notekeeper HTTP API.
//
// The main package stays minimal. Its job is to:
// 1. Read configuration (internal/config: .env + environment)
// 2. Create dependencies (logger, storage, engine)
// 3. Start the server
//
// All actual logic lives in imported packages (internal/server, internal/service, ...).
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sakif/notekeeper/internal/bootstrap"
	"github.com/sakif/notekeeper/internal/config"
	"github.com/sakif/notekeeper/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// Validate already checked the level, so the error cannot happen here.
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// === 3. OPEN STORAGE AND LOAD THE ENGINE ===
	engine, kv, err := bootstrap.OpenEngine(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to start engine", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. CREATE AND START THE SERVER ===
	// The server owns kv from here on and closes it on shutdown.
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Backend: cfg.StorageBackend,
	}, engine, kv, logger)

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
