package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/myfit/internal/models"
)

const (
	authCookieName = "myfit_auth"
	contextUserKey = "current_user"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

// RequestLogger writes one structured line per request.
func (handler *Handler) RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	fields := logrus.Fields{
		"method":  c.Method(),
		"path":    c.Path(),
		"status":  status,
		"latency": time.Since(start).String(),
		"ip":      c.IP(),
	}
	if user, ok := currentUser(c); ok {
		fields["user_id"] = user.ID
	}

	entry := handler.log.WithFields(fields)
	switch {
	case status >= fiber.StatusInternalServerError:
		entry.Error("request")
	case status >= fiber.StatusBadRequest:
		entry.Warn("request")
	default:
		entry.Info("request")
	}
	return err
}
