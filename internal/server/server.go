package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"medialog/internal/auth"
	"medialog/internal/core"
	"medialog/internal/features/blog"
	"medialog/internal/features/media"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	_ "modernc.org/sqlite"
)

type Server struct {
	config      *core.Config
	logger      *slog.Logger
	coreLogger  *core.Logger
	db          *core.Database
	authService *auth.Service
	authHandler *auth.Handler
	registry    *core.Registry
	server      *http.Server
}

func New(logger *slog.Logger) *Server {
	config, err := core.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("sqlite", config.Database.Path)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		os.Exit(1)
	}

	coreLogger := core.NewLogger()
	coreDB := core.NewDatabase(db, coreLogger)
	authService := auth.NewService(coreDB, coreLogger, config)
	authHandler := auth.NewHandler(authService, coreLogger)
	registry := core.NewRegistry(coreLogger)

	srv := &Server{
		config:      config,
		logger:      logger,
		coreLogger:  coreLogger,
		db:          coreDB,
		authService: authService,
		authHandler: authHandler,
		registry:    registry,
	}

	if err := srv.initAuth(); err != nil {
		logger.Error("Failed to initialize authentication", "error", err)
		os.Exit(1)
	}

	if config.IsFeatureEnabled("media") {
		feature := media.NewFeature(coreLogger, coreDB, &config.Features.Media)
		if err := registry.Register(feature); err != nil {
			logger.Error("Failed to register media feature", "error", err)
			os.Exit(1)
		}
	}

	if config.IsFeatureEnabled("blog") {
		feature := blog.NewFeature(coreLogger, coreDB, &config.Features.Blog)
		if err := registry.Register(feature); err != nil {
			logger.Error("Failed to register blog feature", "error", err)
			os.Exit(1)
		}
	}

	srv.setupRoutes()

	return srv
}

// initAuth applies the auth schema and ensures the admin account exists
func (s *Server) initAuth() error {
	ctx := context.Background()
	if err := auth.Migrate(ctx, s.db, s.coreLogger); err != nil {
		return err
	}

	if _, err := s.authService.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}

func (s *Server) setupRoutes() {
	mux := chi.NewRouter()

	mux.Use(middleware.Recoverer)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Logger)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(auth.SessionMiddleware(s.authService))

	// Login is rate limited per client to slow credential guessing
	mux.With(httprate.LimitByIP(10, time.Minute)).Post("/auth/login", s.authHandler.LoginHandler)
	mux.Post("/auth/logout", s.authHandler.LogoutHandler)

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	for _, route := range s.registry.GetPublicRoutes() {
		mux.Method(route.Method, route.Path, route.Handler)
	}

	mux.Group(func(r chi.Router) {
		r.Use(auth.RequireAuthentication)

		r.Get("/auth/me", s.authHandler.MeHandler)

		for _, route := range s.registry.GetAllRoutes() {
			r.Method(route.Method, route.Path, route.Handler)
		}
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler: mux,
	}
}

func (s *Server) Start() error {
	ctx := context.Background()
	if err := s.registry.InitAll(ctx); err != nil {
		s.logger.Error("Failed to initialize features", "error", err)
		return err
	}

	s.logger.Info("Starting server", "host", s.config.Server.Host, "port", s.config.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.registry.ShutdownAll(ctx); err != nil {
		s.logger.Error("Failed to shutdown features", "error", err)
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return s.db.Close()
}
