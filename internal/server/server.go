// Package server wires the application together: database, services,
// handlers, middleware, and routes, plus server start and graceful
// shutdown. It is the composition root — dependencies are assembled here
// and nowhere else.
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
	"github.com/rs/cors"

	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/handler"
	"github.com/sakif/jobboard/internal/middleware"
	"github.com/sakif/jobboard/internal/model"
	sqliteRepo "github.com/sakif/jobboard/internal/repository/sqlite"
	"github.com/sakif/jobboard/internal/service"
	"github.com/sakif/jobboard/internal/upload"
)

// Config holds everything the server needs to run. Google fields may be
// empty; Google sign-in then responds 401 instead of breaking startup.
type Config struct {
	Port               int
	DBPath             string
	UploadDir          string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	AllowedOrigins     []string
}

// Server owns the router and the resources that must be released on
// shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database → repositories →
// services → handlers → routes. Each layer receives only the interfaces it
// needs.
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

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	uploads, err := upload.NewStore(s.config.UploadDir)
	if err != nil {
		return fmt.Errorf("creating upload store: %w", err)
	}

	// Google sign-in is optional. The verifier checks ID tokens posted by
	// SPAs; the provider drives the server-side redirect flow.
	var verifier auth.IDTokenVerifier
	var google *auth.GoogleProvider
	if s.config.GoogleClientID != "" {
		verifier = auth.NewGoogleVerifier(s.config.GoogleClientID)
		if s.config.GoogleClientSecret != "" && s.config.GoogleCallbackURL != "" {
			google = auth.NewGoogleProvider(
				s.config.GoogleClientID,
				s.config.GoogleClientSecret,
				s.config.GoogleCallbackURL,
			)
		}
	}

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, verifier, s.logger)
	jobService := service.NewJobService(s.db.Jobs(), s.db.EmployerProfiles(), s.logger)
	appService := service.NewApplicationService(s.db.Applications(), s.db.Jobs(), s.logger)
	profileService := service.NewProfileService(s.db.EmployerProfiles(), s.db.JobSeekerProfiles(), s.logger)

	authHandler := handler.NewAuthHandler(authService, google, s.logger)
	jobHandler := handler.NewJobHandler(jobService, s.logger)
	appHandler := handler.NewApplicationHandler(appService, uploads, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, uploads, s.logger)

	// Global middleware, in execution order
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Uploaded resumes and logos are served back at the URLs the upload
	// store hands out
	fileServer := http.FileServer(http.Dir(uploads.BaseDir()))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	// Server-side Google redirect flow lives outside /api — these URLs are
	// visited by the browser, not fetched by the frontend
	s.router.Get("/auth/google/login", authHandler.HandleGoogleRedirect)
	s.router.Get("/auth/google/callback", authHandler.HandleGoogleCallback)

	requireAuth := auth.RequireAuth(tokens)
	employerOnly := auth.RequireRole(model.RoleEmployer)

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/google", authHandler.HandleGoogleLogin)
		r.Get("/jobs", jobHandler.HandleList)
		r.Get("/jobs/{id}", jobHandler.HandleGetByID)

		// Any authenticated user: applying, tracking applications, and
		// both profile kinds gate on the token alone — the role only
		// decides which of these a frontend offers
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/applications/apply", appHandler.HandleApply)
			r.Get("/applications/my-applications", appHandler.HandleListMine)
			r.Get("/profile/employer", profileHandler.HandleGetEmployer)
			r.Post("/profile/employer", profileHandler.HandleUpsertEmployer)
			r.Get("/profile/jobseeker", profileHandler.HandleGetJobSeeker)
			r.Post("/profile/jobseeker", profileHandler.HandleUpsertJobSeeker)
		})

		// Employers manage postings and review applicants
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, employerOnly)
			r.Post("/jobs", jobHandler.HandleCreate)
			r.Get("/jobs/my-jobs", jobHandler.HandleListMine)
			r.Put("/jobs/{id}", jobHandler.HandleUpdate)
			r.Delete("/jobs/{id}", jobHandler.HandleDelete)
			r.Get("/applications/job/{jobId}", appHandler.HandleListForJob)
			r.Put("/applications/{id}/status", appHandler.HandleUpdateStatus)
		})
	})

	return nil
}

// Handler exposes the assembled router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Tests use this; Start handles it itself.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
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
			slog.String("uploads", s.config.UploadDir),
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
