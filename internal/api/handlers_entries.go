package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myfit/internal/models"
	"github.com/terraincognita07/myfit/internal/services"
)

const entryDayLayout = "2006-01-02"

type entryView struct {
	Ref       string     `json:"ref"`
	Date      *time.Time `json:"date"`
	Day       string     `json:"day"`
	Calories  int64      `json:"calories"`
	Protein   int64      `json:"protein"`
	CreatedAt time.Time  `json:"created_at"`
}

func (handler *Handler) newEntryView(entry models.LogEntry) entryView {
	view := entryView{
		Ref:       entry.Ref,
		Calories:  entry.Calories,
		Protein:   entry.Protein,
		CreatedAt: entry.CreatedAt,
	}
	if entry.Date != nil {
		date := entry.Date.In(handler.location)
		view.Date = &date
		view.Day = date.Format(entryDayLayout)
	}
	return view
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := services.ParseDateRange(c.Query("from"), c.Query("to"), handler.location)
	if err != nil {
		return handler.dateRangeError(c, err)
	}

	var entries []models.LogEntry
	if from == nil && to == nil {
		entries, err = handler.logService.ListEntries(user.ID)
	} else {
		entries, err = handler.logService.ListEntriesInRange(user.ID, from, to, handler.location)
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, handler.newEntryView(entry))
	}
	return c.JSON(views)
}

func (handler *Handler) AddEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := entryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	date, err := services.ParseEntryDate(input.Date, handler.now(), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.logService.AddEntry(user.ID, services.LogEntryInput{
		Date:     date,
		Calories: input.Calories,
		Protein:  input.Protein,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidLogInput) {
			return apiError(c, fiber.StatusBadRequest, "invalid entry")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to save entry")
	}
	return c.Status(fiber.StatusCreated).JSON(handler.newEntryView(entry))
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	ref := strings.TrimSpace(c.Params("ref"))
	if ref == "" {
		return apiError(c, fiber.StatusNotFound, "entry not found")
	}

	if err := handler.logService.DeleteEntry(user.ID, ref); err != nil {
		if errors.Is(err, services.ErrLogEntryNotFound) {
			return apiError(c, fiber.StatusNotFound, "entry not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to delete entry")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) dateRangeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrRangeFromDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	case errors.Is(err, services.ErrRangeToDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	default:
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}
}
