package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jobprep/jobprep/internal/auth"
	"github.com/jobprep/jobprep/internal/background"
	"github.com/jobprep/jobprep/internal/config"
	"github.com/jobprep/jobprep/internal/database"
	"github.com/jobprep/jobprep/internal/handlers"
	middlewareCustom "github.com/jobprep/jobprep/internal/middleware"
	"github.com/jobprep/jobprep/internal/repositories"
	"github.com/jobprep/jobprep/internal/routes"
	"github.com/jobprep/jobprep/internal/services"
	pkglogger "github.com/jobprep/jobprep/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Apply schema migrations before opening the pool
	if err := database.Migrate(cfg.Database.DSN()); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	revokeRepo := repositories.NewTokenRevocationRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// AWS SES email service
	emailService, err := services.NewAWSSESEmailService(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		cfg.Email.ResetURLBase,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	authService := services.NewAuthService(
		userRepo,
		revokeRepo,
		resetRepo,
		profileRepo,
		emailService,
		tokenManager,
		cfg.Auth.ResetTokenExpiry,
		logger,
		auditLogger,
	)
	signInService := services.NewSignInService(
		profileRepo,
		authService,
		cfg.TwoFactor.Window,
		cfg.TwoFactor.PendingTTL,
		logger,
		auditLogger,
	)
	twoFactorService := services.NewTwoFactorService(
		profileRepo,
		cfg.TwoFactor.Issuer,
		cfg.TwoFactor.Window,
		cfg.TwoFactor.EnrollmentTTL,
		logger,
		auditLogger,
	)
	profileService := services.NewProfileService(profileRepo, logger)
	analysisService := services.NewAnalysisService(analysisRepo, profileRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, signInService)
	twoFactorHandler := handlers.NewTwoFactorHandler(twoFactorService)
	profileHandler := handlers.NewProfileHandler(profileService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	// Background cleanup of expired database rows and in-memory challenges
	cleanupManager := background.NewCleanupManager(logger, cfg.Auth.CleanupInterval)
	cleanupManager.AddCleaner("revoked_tokens", revokeRepo)
	cleanupManager.AddCleaner("password_reset_tokens", resetRepo)
	cleanupManager.AddSweeper("pending_signins", signInService)
	cleanupManager.AddSweeper("enrollment_sessions", twoFactorService)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, twoFactorHandler, profileHandler, analysisHandler, tokenManager, revokeRepo)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
