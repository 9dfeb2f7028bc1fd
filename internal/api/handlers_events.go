package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myfit/internal/services"
)

// EntryEvents streams committed log changes of the current user as
// server-sent events until the client goes away.
func (handler *Handler) EntryEvents(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	changes, cancel := handler.logService.Subscribe(user.ID)
	logger := handler.log.WithField("user_id", user.ID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		if err := streamLogChanges(w, changes, eventsKeepAliveInterval); err != nil {
			logger.WithError(err).Debug("entry event stream closed")
		}
	})
	return nil
}

// streamLogChanges writes each change as a "change" event and a comment line
// every keepAlive. It returns when changes is closed or a write fails.
func streamLogChanges(w *bufio.Writer, changes <-chan services.LogChange, keepAlive time.Duration) error {
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(change)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}
