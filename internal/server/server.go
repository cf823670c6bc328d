// Package server wires the application together: router, middleware stack,
// route table, and graceful shutdown. main.go stays minimal; every
// dependency is assembled here in one place (the composition root).
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
	"github.com/go-chi/cors"

	"github.com/sakif/design-crm/internal/auth"
	"github.com/sakif/design-crm/internal/email"
	"github.com/sakif/design-crm/internal/handler"
	"github.com/sakif/design-crm/internal/middleware"
	sqliteRepo "github.com/sakif/design-crm/internal/repository/sqlite"
	"github.com/sakif/design-crm/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port   int
	DBPath string

	// Session signing. When empty, auth routes are not registered and all
	// /api routes reject with 401 — the server still starts so CRUD can be
	// exercised in development with auth explicitly disabled.
	JWTSecret string

	// External identity provider (OIDC authorization-code flow).
	OIDC auth.ProviderConfig

	// Outbound email relay. When Host is empty a NopSender is installed and
	// send endpoints fail with 500.
	SMTP      email.SMTPConfig
	FromEmail string

	// Allowed CORS origins for the mobile web client. Empty disables CORS
	// headers entirely (same-origin deployments).
	CORSOrigins []string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and assembles the whole dependency chain:
// sqlite.DB → repositories → services → handlers → routes.
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

// setupRoutes configures middleware and the route table.
//
// Middleware order matters: request ID and real IP first so the logger can
// use them, recoverer before anything that might panic, then logging, then
// CORS.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	if len(s.config.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// === Services ===
	contactService := service.NewContactService(s.db, s.logger)
	listService := service.NewListService(s.db, s.logger)

	var sender email.Sender
	if s.config.SMTP.Host != "" {
		sender = email.NewSMTPSender(s.config.SMTP, s.logger)
	} else {
		s.logger.Warn("SMTP not configured — email sending disabled")
		sender = &email.NopSender{Logger: s.logger}
	}
	emailService := service.NewEmailService(s.db, s.db, sender, s.config.FromEmail, s.logger)

	// === Handlers ===
	contactHandler := handler.NewContactHandler(contactService, s.logger)
	listHandler := handler.NewListHandler(listService, s.logger)
	emailHandler := handler.NewEmailHandler(emailService, s.logger)

	// === Auth ===
	if s.config.JWTSecret == "" {
		s.logger.Warn("JWT_SECRET not set — authentication is disabled, /api routes will reject")
		s.router.Route("/api", func(r chi.Router) {
			r.HandleFunc("/*", func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"unauthorized","message":"authentication is not configured"}`,
					http.StatusUnauthorized)
			})
		})
		return nil
	}

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	provider := auth.NewProvider(s.config.OIDC)
	authService := service.NewAuthService(s.db, tokens, s.logger)
	authHandler := handler.NewAuthHandler(provider, authService, s.logger)

	s.router.Get("/auth/login", authHandler.HandleLogin)
	s.router.Get("/auth/callback", authHandler.HandleCallback)
	s.router.Post("/auth/logout", authHandler.HandleLogout)

	// === Protected API ===
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/auth/user", authHandler.HandleUser)

		r.Get("/contacts", contactHandler.HandleList)
		r.Get("/contacts/search", contactHandler.HandleSearch)
		r.Get("/contacts/{id}", contactHandler.HandleGetByID)
		r.Post("/contacts", contactHandler.HandleCreate)
		r.Put("/contacts/{id}", contactHandler.HandleUpdate)
		r.Delete("/contacts/{id}", contactHandler.HandleDelete)

		r.Get("/lists", listHandler.HandleList)
		r.Post("/lists", listHandler.HandleCreate)
		r.Get("/lists/{id}", listHandler.HandleGetByID)
		r.Put("/lists/{id}", listHandler.HandleUpdate)
		r.Delete("/lists/{id}", listHandler.HandleDelete)

		r.Get("/lists/{id}/contacts", listHandler.HandleContacts)
		r.Post("/lists/{id}/contacts", listHandler.HandleAddContact)
		r.Delete("/lists/{listId}/contacts/{contactId}", listHandler.HandleRemoveContact)

		r.Post("/send-email", emailHandler.HandleSendContacts)
		r.Post("/lists/{id}/send", emailHandler.HandleSendList)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests finish
// (30s budget), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // outbound SMTP happens inside request handlers
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
