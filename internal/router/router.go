package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/yearbook-go-api/internal/config"
	"github.com/noah-isme/yearbook-go-api/internal/handler"
	"github.com/noah-isme/yearbook-go-api/internal/middleware"
	"github.com/noah-isme/yearbook-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ModerationHandler   *handler.ModerationHandler
	AuditLogHandler     *handler.AuditLogHandler
	AdminSessionHandler *handler.AdminSessionHandler
	EngagementHandler   *handler.EngagementHandler
	YearSettingsHandler *handler.YearSettingsHandler
	JWTMiddleware       fiber.Handler
	OptionalJWT         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	optionalJWT := deps.OptionalJWT
	if optionalJWT == nil {
		optionalJWT = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Admin surface
	admin := app.Group("/api/admin", jwtMiddleware, middleware.RequireRole("admin"))

	if deps.ModerationHandler != nil {
		moderationGroup := admin.Group("/moderation")
		deps.ModerationHandler.Register(moderationGroup)
	}

	if deps.AuditLogHandler != nil {
		auditGroup := admin.Group("/audit-logs")
		deps.AuditLogHandler.Register(auditGroup)
	}

	if deps.AdminSessionHandler != nil {
		sessionGroup := admin.Group("/sessions")
		deps.AdminSessionHandler.Register(admin, sessionGroup)
	}

	if deps.YearSettingsHandler != nil {
		yearGroup := admin.Group("/years")
		deps.YearSettingsHandler.Register(yearGroup)
	}

	// Public gallery surface: anonymous reads allowed, writes rate limited
	if deps.EngagementHandler != nil {
		gallery := app.Group("/api/gallery", optionalJWT, middleware.RateLimit("gallery", 120, time.Minute))
		deps.EngagementHandler.Register(gallery)
	}
}
