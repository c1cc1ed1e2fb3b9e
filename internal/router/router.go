package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-exam-api/internal/config"
	"github.com/noah-isme/gema-exam-api/internal/handler"
	"github.com/noah-isme/gema-exam-api/internal/middleware"
	"github.com/noah-isme/gema-exam-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ExamHandler       *handler.ExamHandler
	SubmissionHandler *handler.SubmissionHandler
	SeedHandler       *handler.SeedHandler
	JWTMiddleware     fiber.Handler
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

	v2 := app.Group("/api/v2")

	if deps.ExamHandler != nil {
		deps.ExamHandler.Register(v2.Group("/exams", jwtMiddleware))
	}

	if deps.SubmissionHandler != nil {
		requireUser := middleware.WithAuth(next, middleware.AuthOptions{Role: middleware.AuthRoleAny, RequireUser: true})
		submissions := v2.Group("/submissions", jwtMiddleware, requireUser)
		deps.SubmissionHandler.Register(submissions,
			middleware.RequireRole(middleware.AuthRoleStudent),
			middleware.RateLimit("submissions", cfg.SubmitRateLimit, time.Minute),
		)
	}

	// Seeding is guarded by its own token rather than a user session.
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(v2.Group("/seed"))
	}
}

func next(c *fiber.Ctx) error {
	return c.Next()
}
