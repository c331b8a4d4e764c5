package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/communitybridge/helpdesk-service/internal/api/http/handlers"
	"github.com/communitybridge/helpdesk-service/internal/auth"
	"github.com/communitybridge/helpdesk-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Requests       *handlers.RequestsHandler
	Assignments    *handlers.AssignmentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.HTTPHandler()))

	helpdesk := app.Group("/helpdesk", cfg.AuthMiddleware.Handle)

	requests := helpdesk.Group("/requests", auth.RequireAuthenticated())
	requests.Post("", cfg.Requests.Create)
	requests.Get("/:id", cfg.Requests.Get)
	requests.Patch("/:id/status", auth.RequireStaff(), cfg.Requests.UpdateStatus)
	requests.Post("/:id/assign", auth.RequireStaff(), cfg.Assignments.Assign)

	assignments := helpdesk.Group("/assignments", auth.RequireSuperAdmin())
	assignments.Post("/bulk", cfg.Assignments.BulkAssign)
	assignments.Post("/bulk-simple", cfg.Assignments.BulkSimpleAssign)

	helpdesk.Get("/workload", auth.RequireStaff(), cfg.Assignments.Workload)
}
