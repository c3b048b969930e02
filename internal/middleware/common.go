package middleware

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// exposeErrorsKey marks whether handlers may return internal error text.
const exposeErrorsKey = "expose_errors"

// Config customises the middleware registration pipeline.
type Config struct {
	Logger *zerolog.Logger
	// ExposeInternalErrors returns the raw text of unexpected errors to
	// clients. It is disabled in production.
	ExposeInternalErrors bool
	AllowOrigins         string
}

// Register attaches the common middlewares used across the API.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(CorrelationID())
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(exposeErrorsKey, cfg.ExposeInternalErrors)
		return c.Next()
	})
	app.Use(Observability(requestLogger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
}

// ExposeInternalErrors reports whether the request may carry internal error text.
func ExposeInternalErrors(c *fiber.Ctx) bool {
	expose, _ := c.Locals(exposeErrorsKey).(bool)
	return expose
}
