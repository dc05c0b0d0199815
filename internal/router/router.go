package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/classboard/classboard-api/internal/config"
	"github.com/classboard/classboard-api/internal/handler"
	"github.com/classboard/classboard-api/internal/middleware"
	"github.com/classboard/classboard-api/internal/observability"
	"github.com/classboard/classboard-api/internal/scope"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DashboardHandler  *handler.DashboardHandler
	StudentHandler    *handler.StudentHandler
	GroupHandler      *handler.GroupHandler
	TaskHandler       *handler.TaskHandler
	EvaluationHandler *handler.EvaluationHandler
	CatalogHandler    *handler.CatalogHandler
	TeacherHandler    *handler.TeacherHandler
	SettingsHandler   *handler.SettingsHandler
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
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	adminOnly := middleware.RequireRole(scope.RoleAdmin, scope.RoleSuperAdmin)

	// Dashboard is readable by every authenticated role; role scoping is
	// applied inside the aggregation itself.
	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.Register(students)
	}

	if deps.GroupHandler != nil {
		groups := api.Group("/groups", jwtMiddleware)
		deps.GroupHandler.Register(groups)
	}

	if deps.TaskHandler != nil {
		tasks := api.Group("/tasks", jwtMiddleware)
		deps.TaskHandler.Register(tasks)
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations", jwtMiddleware)
		deps.EvaluationHandler.Register(evaluations)
	}

	// Catalog, teacher accounts and global settings are management surfaces.
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api.Group("", jwtMiddleware, adminOnly))
	}

	if deps.TeacherHandler != nil {
		teachers := api.Group("/teachers", jwtMiddleware, adminOnly)
		deps.TeacherHandler.Register(teachers)
	}

	if deps.SettingsHandler != nil {
		settings := api.Group("/settings", jwtMiddleware, adminOnly)
		deps.SettingsHandler.Register(settings)
	}
}
