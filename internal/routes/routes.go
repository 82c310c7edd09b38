package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/jobprep/jobprep/internal/auth"
	"github.com/jobprep/jobprep/internal/handlers"
	"github.com/jobprep/jobprep/internal/middleware"
	"github.com/jobprep/jobprep/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	twoFactorHandler *handlers.TwoFactorHandler,
	profileHandler *handlers.ProfileHandler,
	analysisHandler *handlers.AnalysisHandler,
	tokenManager *auth.TokenManager,
	revokeRepo *repositories.TokenRevocationRepository,
) {
	authLimit := middleware.DefaultAuthRateLimit()
	codeLimit := middleware.DefaultCodeRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(authLimit)).Post("/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(authLimit)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(codeLimit)).Post("/auth/login/verify-2fa", authHandler.VerifyTwoFactor)
	router.Post("/auth/login/cancel-2fa", authHandler.CancelTwoFactor)
	router.With(middleware.RateLimitByIP(authLimit)).Post("/auth/refresh", authHandler.RefreshToken)
	router.With(middleware.RateLimitByIP(authLimit)).Post("/auth/reset-password", authHandler.ForgotPassword)
	router.With(middleware.RateLimitByIP(authLimit)).Post("/auth/reset-password/confirm", authHandler.ResetPassword)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddlewareWithRevocation(tokenManager, revokeRepo))

		r.Post("/auth/logout", authHandler.Logout)

		// Profile
		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Update)
		r.Get("/profile/completeness", profileHandler.Completeness)

		// Two-factor enrollment
		r.Post("/2fa/setup", twoFactorHandler.Setup)
		r.Post("/2fa/setup/continue", twoFactorHandler.Continue)
		r.With(middleware.RateLimitByIP(codeLimit)).Post("/2fa/verify", twoFactorHandler.Verify)
		r.Post("/2fa/cancel", twoFactorHandler.Cancel)
		r.Post("/2fa/disable", twoFactorHandler.Disable)
		r.Get("/2fa/status", twoFactorHandler.Status)

		// Resume analysis and job market data
		r.Post("/analysis/resume", analysisHandler.Analyze)
		r.Get("/analysis/history", analysisHandler.History)
		r.Post("/analysis/roles", analysisHandler.SuggestRoles)
		r.Post("/analysis/heatmap", analysisHandler.Heatmap)
	})
}
