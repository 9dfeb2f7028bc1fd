package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myfit/internal/services"
)

type calendarDayView struct {
	Date     string `json:"date"`
	Day      int    `json:"day"`
	InMonth  bool   `json:"in_month"`
	IsToday  bool   `json:"is_today"`
	Logged   bool   `json:"logged"`
	Calories int64  `json:"calories"`
	Protein  int64  `json:"protein"`
}

type calendarView struct {
	Month         string            `json:"month"`
	PrevMonth     string            `json:"prev_month"`
	NextMonth     string            `json:"next_month"`
	LeadingOffset int               `json:"leading_offset"`
	Days          []calendarDayView `json:"days"`
}

func (handler *Handler) Calendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.now()
	monthStart, err := services.ParseCalendarMonth(c.Query("month"), now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	calendar, err := handler.analyticsService.Calendar(user.ID, monthStart, now)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load calendar")
	}

	view := calendarView{
		Month:         calendar.Month.Format("2006-01"),
		PrevMonth:     calendar.Month.AddDate(0, -1, 0).Format("2006-01"),
		NextMonth:     calendar.Month.AddDate(0, 1, 0).Format("2006-01"),
		LeadingOffset: calendar.LeadingOffset,
		Days:          make([]calendarDayView, 0, len(calendar.Days)),
	}
	for _, day := range calendar.Days {
		view.Days = append(view.Days, calendarDayView{
			Date:     day.DateString,
			Day:      day.Day,
			InMonth:  day.InMonth,
			IsToday:  day.IsToday,
			Logged:   day.Logged,
			Calories: day.Calories,
			Protein:  day.Protein,
		})
	}
	return c.JSON(view)
}
