package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(handler.metrics.Handler()))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Get("/setup-status", handler.SetupStatus)
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.ListEntries)
	entries.Post("", handler.AddEntry)
	entries.Get("/events", handler.EntryEvents)
	entries.Delete("/:ref", handler.DeleteEntry)

	api.Get("/dashboard", handler.AuthRequired, handler.Dashboard)
	api.Get("/analytics", handler.AuthRequired, handler.Analytics)
	api.Get("/calendar", handler.AuthRequired, handler.Calendar)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
