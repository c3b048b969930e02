package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/nightguard-api/internal/config"
	"github.com/noah-isme/nightguard-api/internal/handler"
	"github.com/noah-isme/nightguard-api/internal/middleware"
	"github.com/noah-isme/nightguard-api/internal/observability"
	"github.com/noah-isme/nightguard-api/internal/permission"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Authenticator    middleware.Authenticator
	LoginLimiter     fiber.Handler
	AuthHandler      *handler.AuthHandler
	VenueHandler     *handler.VenueHandler
	IncidentHandler  *handler.IncidentHandler
	SignInHandler    *handler.SignInHandler
	CctvHandler      *handler.CctvHandler
	ScheduleHandler  *handler.ScheduleHandler
	UserHandler      *handler.UserHandler
	DocumentHandler  *handler.DocumentHandler
	DashboardHandler *handler.DashboardHandler
	EventHandler     *handler.EventStreamHandler
	ActivityHandler  *handler.ActivityHandler
}

// Register wires the HTTP routes into the fiber application. Fiber runs
// handlers in registration order, so public routes are added before the
// session middleware and session-only routes before the role floor.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterPublic(api, deps.LoginLimiter)
	}

	if deps.Authenticator == nil {
		return
	}
	api.Use(middleware.SessionAuth(deps.Authenticator))

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterSession(api)
	}

	api.Use(middleware.RequireRole(permission.Staff))
	api.Get("/permissions", handler.Permissions())

	if deps.VenueHandler != nil {
		deps.VenueHandler.Register(api)
	}
	if deps.IncidentHandler != nil {
		deps.IncidentHandler.Register(api)
	}
	if deps.SignInHandler != nil {
		deps.SignInHandler.Register(api)
	}
	if deps.CctvHandler != nil {
		deps.CctvHandler.Register(api)
	}
	if deps.ScheduleHandler != nil {
		deps.ScheduleHandler.Register(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.Register(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.Register(api)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api)
	}
	if deps.EventHandler != nil {
		deps.EventHandler.Register(api)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api)
	}
}
