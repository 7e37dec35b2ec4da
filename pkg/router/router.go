package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-account/pkg/audit"
	"github.com/tendant/simple-account/pkg/client"
	"github.com/tendant/simple-account/pkg/iam"
	"github.com/tendant/simple-account/pkg/login/loginapi"
	"github.com/tendant/simple-account/pkg/profile"
	"github.com/tendant/simple-account/pkg/ratelimit"
	"github.com/tendant/simple-account/pkg/signup"
)

// Config holds all the handlers and guards needed to set up routes
type Config struct {
	LoginHandle   *loginapi.Handle
	SignupHandle  *signup.Handle
	ProfileHandle *profile.Handle
	UserHandle    *iam.Handle

	// Authenticator resolves bearer tokens for every protected route
	Authenticator client.Authenticator

	// LoginThrottle limits login attempts per client; nil disables it
	LoginThrottle *ratelimit.Middleware

	// Audit records authenticated requests; nil disables it
	Audit *audit.Middleware
}

// SetupRoutes mounts all account routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	// Public routes
	cfg.SignupHandle.RegisterRoutes(router)
	router.With(cfg.LoginThrottle.Handler).Post("/authentication/login", cfg.LoginHandle.Login)

	// Authenticated routes. The token is checked before any request body is looked at.
	router.Group(func(r chi.Router) {
		r.Use(client.AuthMiddleware(cfg.Authenticator))
		r.Use(cfg.Audit.Handler)

		r.Post("/logout", cfg.LoginHandle.Logout)

		r.Get("/profile", cfg.LoginHandle.Profile)
		r.Put("/profile/update", cfg.ProfileHandle.UpdateProfile)
		r.Put("/profile/password", cfg.ProfileHandle.UpdatePassword)

		// Admin-only routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(client.RequireAdmin)
			cfg.UserHandle.RegisterRoutes(r)
		})
	})
}
