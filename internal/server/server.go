// Package server provides the HTTP server of the inventory backend.
// It handles dependency wiring, routing, middleware configuration and
// server lifecycle management.
//
// Initialization follows a fixed order so that every layer receives
// ready dependencies: database → auth providers → repositories →
// infrastructure (mail, storage) → services → handlers → routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/mambagroup/inventory-backend/internal/auth"
	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/database"
	"github.com/mambagroup/inventory-backend/internal/handlers"
	"github.com/mambagroup/inventory-backend/internal/mail"
	"github.com/mambagroup/inventory-backend/internal/middleware"
	"github.com/mambagroup/inventory-backend/internal/repository"
	"github.com/mambagroup/inventory-backend/internal/service"
	"github.com/mambagroup/inventory-backend/internal/storage"
	"github.com/mambagroup/inventory-backend/migrations"
	"github.com/mambagroup/inventory-backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler manages registration, sessions and the profile
	AuthHandler *handlers.AuthHandler

	// ProductHandler manages the inventory endpoints
	ProductHandler *handlers.ProductHandler

	// ContactHandler relays contact messages to support
	ContactHandler *handlers.ContactHandler

	// HealthHandler reports liveness and the build version
	HealthHandler *handlers.HealthHandler
}

// AuthProviders contains all authentication providers for the application.
type AuthProviders struct {
	// JWTService handles session token generation and validation
	JWTService *auth.JWTService

	// PasswordCfg contains the password hashing parameters
	PasswordCfg *auth.PasswordConfig
}

// Repositories holds the data access layer.
type Repositories struct {
	Users          repository.UserRepository
	PasswordResets repository.PasswordResetRepository
	Products       repository.ProductRepository
}

// Services holds the business logic layer.
type Services struct {
	Auth     *service.AuthService
	Products *service.ProductService
	Contact  *service.ContactService
}

// Server represents the API server of the inventory backend.
// It encapsulates all server components and handles server lifecycle management,
// including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	router        chi.Router
	httpServer    *http.Server
	authProviders *AuthProviders
	repos         *Repositories
	services      *Services
	mailer        mail.Mailer
	images        storage.ImageStore

	registry    *prometheus.Registry
	httpMetrics *middleware.HTTPMetrics

	stopMaintenance context.CancelFunc
	maintenanceWG   sync.WaitGroup
}

// NewServer connects to the database, applies migrations and builds a
// server ready to start.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
func NewServer(cfg *config.AppConfig) (*Server, error) {
	db, err := setupDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s, err := NewServerWithDB(context.Background(), cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewServerWithDB builds a server around an already prepared pool. No
// schema changes are made.
func NewServerWithDB(ctx context.Context, cfg *config.AppConfig, db *database.Pool) (*Server, error) {
	s := &Server{
		Config: cfg,
		Db:     db,
	}

	s.setupAuthProviders()
	s.setupRepositories()

	if err := s.setupInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("failed to set up infrastructure: %w", err)
	}

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	s.setupHandlers()
	s.setupObservability()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase opens the pool, runs migrations and, when enabled, seeds
// demo data.
func setupDatabase(cfg *config.AppConfig) (*database.Pool, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	if err := migrator.VerifyAllTablesExist(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify database tables: %w", err)
	}

	if cfg.App.SeedDemoData {
		seeder := scripts.NewSeeder(db, auth.ConfigFromAppConfig(cfg))
		if err := seeder.SeedDatabase(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return db, nil
}

// setupAuthProviders creates the JWT service and the password parameters.
func (s *Server) setupAuthProviders() {
	s.authProviders = &AuthProviders{
		JWTService:  auth.NewJWTService(&s.Config.JWT),
		PasswordCfg: auth.ConfigFromAppConfig(s.Config),
	}
}

// setupRepositories creates one repository per table.
func (s *Server) setupRepositories() {
	s.repos = &Repositories{
		Users:          repository.NewUserRepository(s.Db),
		PasswordResets: repository.NewPasswordResetRepository(s.Db),
		Products:       repository.NewProductRepository(s.Db),
	}
}

// setupInfrastructure creates the configured mailer and image store.
func (s *Server) setupInfrastructure(ctx context.Context) error {
	mailer, err := mail.New(&s.Config.Mail)
	if err != nil {
		return err
	}
	s.mailer = mailer

	images, err := storage.New(ctx, &s.Config.Storage)
	if err != nil {
		return err
	}
	s.images = images

	log.Info().
		Str("mail_provider", s.Config.Mail.Provider).
		Str("storage_driver", s.Config.Storage.Driver).
		Msg("Infrastructure configured")

	return nil
}

// setupServices wires the business services onto the repositories.
func (s *Server) setupServices() error {
	if s.authProviders == nil || s.authProviders.JWTService == nil {
		return errors.New("JWT service not initialized")
	}
	if s.authProviders.PasswordCfg == nil {
		return errors.New("password config not initialized")
	}

	s.services = &Services{
		Auth: service.NewAuthService(
			s.repos.Users,
			s.repos.PasswordResets,
			s.authProviders.JWTService,
			s.mailer,
			s.authProviders.PasswordCfg,
			&s.Config.PasswordReset,
			s.Config.App.ClientURL,
		),
		Products: service.NewProductService(s.repos.Products, s.images, s.Config.Storage.MaxUploadSize),
		Contact:  service.NewContactService(s.repos.Users, s.mailer, &s.Config.Mail),
	}

	return nil
}

// setupHandlers creates the HTTP handlers around the services.
func (s *Server) setupHandlers() {
	s.Handlers = &Handlers{
		AuthHandler:    handlers.NewAuthHandler(s.services.Auth, &s.Config.Cookie),
		ProductHandler: handlers.NewProductHandler(s.services.Products, s.Config.Storage.MaxUploadSize),
		ContactHandler: handlers.NewContactHandler(s.services.Contact),
		HealthHandler:  handlers.NewHealthHandler(s.Db, s.Config.App.Version, s.Config.App.Environment),
	}
}

// setupObservability creates the metrics registry. Each server owns its
// registry so that several instances can coexist in tests.
func (s *Server) setupObservability() {
	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(s.Db.DB, s.Config.Database.Name),
	)
	s.httpMetrics = middleware.NewHTTPMetrics(s.registry)
}

// Start starts the HTTP server and blocks until it fails or a shutdown
// signal (SIGINT, SIGTERM) arrives, in which case it shuts down gracefully.
//
// Returns:
//   - An error if the server fails to start or to stop cleanly
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		s.stopBackground()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown waits for in-flight requests, stops the maintenance tasks and
// closes the database connection.
//
// Parameters:
//   - ctx: Context with timeout for the shutdown operation
//
// Returns:
//   - An error if shutdown fails within the context timeout
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info().Msg("Server stopped gracefully")

	s.stopBackground()

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// SetupMaintenanceTasks starts a background purge of expired reset tokens,
// hourly by default. It stops on Shutdown.
func (s *Server) SetupMaintenanceTasks() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopMaintenance = cancel

	s.maintenanceWG.Add(1)
	go func() {
		defer s.maintenanceWG.Done()

		interval := s.Config.PasswordReset.CleanupInterval
		if interval <= 0 {
			interval = constants.DBMaintenanceInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runMaintenance(ctx)
			}
		}
	}()
}

// runMaintenance performs one maintenance pass.
func (s *Server) runMaintenance(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, constants.MaintenanceTaskTimeout)
	defer cancel()

	if count, err := s.services.Auth.CleanupExpiredResetTokens(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to cleanup expired reset tokens")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("Cleaned up expired reset tokens")
	}
}

// stopBackground cancels the maintenance task and waits for it.
func (s *Server) stopBackground() {
	if s.stopMaintenance != nil {
		s.stopMaintenance()
		s.maintenanceWG.Wait()
		s.stopMaintenance = nil
	}
}
