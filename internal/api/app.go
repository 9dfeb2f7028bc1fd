package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp returns a fiber app with the middleware stack and every route
// registered.
func NewApp(handler *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "MyFit",
		DisableStartupMessage: true,
		ErrorHandler:          handler.handleError,
	})

	app.Use(recover.New())
	app.Use(handler.metrics.Middleware())
	app.Use(handler.RequestLogger)
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/entries/events"
		},
	}))

	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}

func (handler *Handler) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apiError(c, fiberErr.Code, fiberErr.Message)
	}
	handler.log.WithField("path", c.Path()).WithError(err).Error("unhandled request error")
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}
