package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/http/handlers"
	"github.com/spec-kit/timesheet-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Timesheets      *handlers.TimesheetsHandler
	AdminTimesheets *handlers.AdminTimesheetsHandler
	PayPeriods      *handlers.PayPeriodsHandler
	AuthMiddleware  *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	timesheets := api.Group("/timesheets")
	timesheets.Get("", cfg.Timesheets.List)
	timesheets.Post("", cfg.Timesheets.EnsureDraft)
	timesheets.Get("/:id", cfg.Timesheets.Get)
	timesheets.Post("/:id/submit", cfg.Timesheets.Submit)
	timesheets.Post("/:id/notes", cfg.Timesheets.AddNote)

	admin := api.Group("/admin", auth.RequireApprover())
	admin.Get("/timesheets", cfg.AdminTimesheets.List)
	admin.Get("/timesheets/:id", cfg.AdminTimesheets.Get)
	admin.Post("/timesheets/:id/approve", cfg.AdminTimesheets.Approve)
	admin.Post("/timesheets/:id/reject", cfg.AdminTimesheets.Reject)
	admin.Post("/timesheets/:id/unapprove", cfg.AdminTimesheets.Unapprove)
	admin.Put("/timesheets/:id/admin-notes", cfg.AdminTimesheets.UpdateAdminNotes)
	admin.Post("/timesheets/:id/notes", cfg.AdminTimesheets.AddNote)

	adminOnly := admin.Group("", auth.RequireAdmin())
	adminOnly.Get("/users", cfg.AdminTimesheets.ListUsers)
	adminOnly.Post("/reminders/unsubmitted", cfg.AdminTimesheets.SendReminders)
	adminOnly.Get("/pay-periods/status", cfg.PayPeriods.Status)
	adminOnly.Post("/pay-periods/confirm", cfg.PayPeriods.Confirm)
}
