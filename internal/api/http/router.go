package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/school-auth/internal/api/http/handlers"
	"github.com/spec-kit/school-auth/internal/auth"
	"github.com/spec-kit/school-auth/internal/domain"
	"github.com/spec-kit/school-auth/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)

	protected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Auth.Me)

	// Operational counters, restricted to platform administrators.
	ops := app.Group("/ops", cfg.AuthMiddleware.Handle, auth.RequireGroup(domain.GroupAdminOnly))
	ops.Get("/metrics", metricsHandler(cfg.Metrics))
}

func metricsHandler(metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requests, errs := metrics.Snapshot()
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"requests": requests,
				"errors":   errs,
			},
		})
	}
}
