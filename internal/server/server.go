// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the
// database, services, handlers, and middleware are assembled and bound to
// routes. Keeping it out of main.go makes the whole stack constructible in
// tests without running a process.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go builds Config from env → server.New() creates:
//	  sqlite.DB → TokenService/PasswordService → AuthService/CatalogService
//	  → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services, the router gets handlers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/foundry/internal/auth"
	"github.com/sakif/foundry/internal/handler"
	"github.com/sakif/foundry/internal/middleware"
	sqliteRepo "github.com/sakif/foundry/internal/repository/sqlite"
	"github.com/sakif/foundry/internal/service"
)

// Config holds server configuration, loaded from the environment in
// cmd/server. Using a struct keeps new options from rippling through
// function signatures.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration // zero means the token service default
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown to flush the WAL and release the file
// lock.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain wired:
//
//  1. Open the database (runs migrations and seeds categories)
//  2. Build the token and password services from config
//  3. Build the service layer on the repository interfaces
//  4. Build handlers and bind routes
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured router so tests can drive the full stack
// through httptest without opening a socket.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's database connection. Start() does this
// itself; Close exists for callers (tests) that never call Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /api/health                          → liveness
//	POST   /api/auth/signup                     → register admin
//	POST   /api/auth/login                      → issue bearer token
//	GET    /api/auth/admin                      → current admin (bearer)
//	GET    /api/categories                      → fixed category set
//	GET    /api/categories/{name}/components    → components by category
//	GET    /api/components?skip&limit           → list components
//	GET    /api/components/{id}                 → component with snippets
//	/api/admin/...                              → bearer-gated writes plus
//	                                              read mirrors of the above
//
// MIDDLEWARE ORDER MATTERS: RequestID first so the logger can pick it up,
// Recoverer before the logger so a panic still produces a 500 log line.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db.Admins, tokens, passwords, s.logger)
	catalogService := service.NewCatalogService(s.db.Categories, s.db.Components, s.db.Snippets, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, s.logger)

	requireAdmin := auth.RequireAdmin(tokens, s.db.Admins)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HandleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)
			r.With(requireAdmin).Get("/admin", authHandler.HandleMe)
		})

		// Public, read-only catalog.
		r.Get("/categories", catalogHandler.HandleListCategories)
		r.Get("/categories/{name}/components", catalogHandler.HandleComponentsByCategory)
		r.Get("/components", catalogHandler.HandleListComponents)
		r.Get("/components/{id}", catalogHandler.HandleGetComponent)

		// Bearer-gated writes, plus read mirrors so admin tooling can use
		// one base path for everything.
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin)

			r.Get("/components", catalogHandler.HandleListComponents)
			r.Post("/components", catalogHandler.HandleCreateComponent)
			r.Get("/components/{id}", catalogHandler.HandleGetComponent)
			r.Put("/components/{id}", catalogHandler.HandleUpdateComponent)
			r.Delete("/components/{id}", catalogHandler.HandleDeleteComponent)
			r.Post("/components/{id}/snippets", catalogHandler.HandleCreateSnippet)
			r.Put("/snippets/{id}", catalogHandler.HandleUpdateSnippet)
			r.Delete("/snippets/{id}", catalogHandler.HandleDeleteSnippet)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
