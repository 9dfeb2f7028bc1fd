package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myfit/internal/services"
)

type seriesPoint struct {
	Day   string `json:"day"`
	Value int64  `json:"value"`
}

type trendView struct {
	Range    services.TimeRange `json:"range"`
	Label    string             `json:"label"`
	Start    time.Time          `json:"start"`
	End      time.Time          `json:"end"`
	Days     []dailyTotalView   `json:"days"`
	Calories []seriesPoint      `json:"calories"`
	Protein  []seriesPoint      `json:"protein"`
}

type dailyTotalView struct {
	Day      string `json:"day"`
	Calories int64  `json:"calories"`
	Protein  int64  `json:"protein"`
}

func (handler *Handler) Analytics(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	timeRange, err := services.ParseTimeRange(c.Query("range"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	trend, err := handler.analyticsService.Trend(user.ID, timeRange, handler.now())
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load analytics")
	}

	view := trendView{
		Range:    trend.Range,
		Label:    trend.Range.Label(),
		Start:    trend.Start.In(handler.location),
		End:      trend.End.In(handler.location),
		Days:     make([]dailyTotalView, 0, len(trend.Days)),
		Calories: make([]seriesPoint, 0, len(trend.Days)),
		Protein:  make([]seriesPoint, 0, len(trend.Days)),
	}
	for _, total := range trend.Days {
		day := total.Day.Format(entryDayLayout)
		view.Days = append(view.Days, dailyTotalView{Day: day, Calories: total.Calories, Protein: total.Protein})
		view.Calories = append(view.Calories, seriesPoint{Day: day, Value: total.Calories})
		view.Protein = append(view.Protein, seriesPoint{Day: day, Value: total.Protein})
	}
	return c.JSON(view)
}
