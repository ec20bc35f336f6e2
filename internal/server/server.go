// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer: it connects handlers, middleware and
// routes, and owns the storage connection for the lifetime of the process.
//
// DEPENDENCY INJECTION FLOW:
//
//	cmd/server/main.go
//	  config.Load → bootstrap.OpenEngine → (service.Engine, repository.KVStore)
//	  server.New(cfg, engine, kv, logger)
//	    handler.SharedEngine (one mutex) → NoteHandler, DraftHandler, ThemeHandler
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/setupRoutes) rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/notekeeper/internal/handler"
	"github.com/sakif/notekeeper/internal/middleware"
	"github.com/sakif/notekeeper/internal/repository"
	"github.com/sakif/notekeeper/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port    int
	Backend string // only logged
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the KV store. When the server shuts down it is closed,
// which flushes the sqlite WAL or drops the redis connection pool.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	kv     repository.KVStore
}

// New creates a Server around an already-loaded engine.
// kv must be the store engine was loaded from; the Server takes ownership of it.
func New(cfg Config, engine *service.Engine, kv repository.KVStore, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		kv:     kv,
	}
	s.setupRoutes(handler.NewSharedEngine(engine))
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /api/notes               → Current view (?q= sets the search query)
// POST   /api/notes               → Create note
// GET    /api/notes/{id}          → Get single note
// PUT    /api/notes/{id}          → Update note
// DELETE /api/notes/{id}          → Delete note
// POST   /api/notes/{id}/pin      → Toggle pin
// PUT    /api/search              → Set search query
// GET    /api/draft               → Draft buffer
// POST   /api/draft               → Begin create
// PATCH  /api/draft               → Edit title/content
// DELETE /api/draft               → Cancel
// POST   /api/draft/edit/{id}     → Begin edit
// POST   /api/draft/tags          → Add tag
// DELETE /api/draft/tags/{tag}    → Remove tag
// POST   /api/draft/commit        → Commit
// GET    /api/theme               → Theme preference
// PUT    /api/theme               → Set theme preference
// GET    /api/state               → Everything above in one response
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns unique ID to each request (for tracing)
// 2. RealIP: extracts real client IP from proxy headers
// 3. Recoverer: catches panics and returns 500 instead of crashing
// 4. Logger: logs each request with timing info and the request ID
func (s *Server) setupRoutes(shared *handler.SharedEngine) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	notes := handler.NewNoteHandler(shared, s.logger)
	drafts := handler.NewDraftHandler(shared, s.logger)
	theme := handler.NewThemeHandler(shared, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notes.HandleList)
			r.Post("/", notes.HandleCreate)
			r.Get("/{id}", notes.HandleGetByID)
			r.Put("/{id}", notes.HandleUpdate)
			r.Delete("/{id}", notes.HandleDelete)
			r.Post("/{id}/pin", notes.HandleTogglePin)
		})
		r.Put("/search", notes.HandleSearch)

		r.Route("/draft", func(r chi.Router) {
			r.Get("/", drafts.HandleGet)
			r.Post("/", drafts.HandleBeginCreate)
			r.Patch("/", drafts.HandlePatch)
			r.Delete("/", drafts.HandleCancel)
			r.Post("/edit/{id}", drafts.HandleBeginEdit)
			r.Post("/tags", drafts.HandleAddTag)
			r.Delete("/tags/{tag}", drafts.HandleRemoveTag)
			r.Post("/commit", drafts.HandleCommit)
		})

		r.Get("/theme", theme.HandleGet)
		r.Put("/theme", theme.HandleSet)
		r.Get("/state", theme.HandleState)
	})
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the KV store
//
// Every mutation is persisted before its response is written, so once step 2
// finishes there is nothing left to flush from the engine itself.
func (s *Server) Start() error {
	defer func() {
		if err := s.kv.Close(); err != nil {
			s.logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("storage", s.config.Backend),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
