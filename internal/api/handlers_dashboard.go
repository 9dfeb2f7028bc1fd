package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/myfit/internal/services"
)

type healthReadingView struct {
	Value     float64    `json:"value"`
	Source    string     `json:"source"`
	FetchedAt *time.Time `json:"fetched_at"`
}

type dashboardView struct {
	Streak             int               `json:"streak"`
	Latest             *entryView        `json:"latest"`
	WeeklyEnergyBurned healthReadingView `json:"weekly_energy_burned"`
	WeeklySteps        healthReadingView `json:"weekly_steps"`
	Window             windowView        `json:"window"`
}

type windowView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func newHealthReadingView(reading services.HealthReading) healthReadingView {
	return healthReadingView{Value: reading.Value, Source: reading.Source, FetchedAt: reading.FetchedAt}
}

func (handler *Handler) Dashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := handler.dashboardService.Build(c.UserContext(), user.ID, handler.now())
	if err != nil {
		handler.log.WithField("user_id", user.ID).WithError(err).Error("dashboard build failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	view := dashboardView{
		Streak:             summary.Streak,
		WeeklyEnergyBurned: newHealthReadingView(summary.Health.EnergyBurned),
		WeeklySteps:        newHealthReadingView(summary.Health.StepCount),
		Window: windowView{
			Start: summary.Health.WindowStart,
			End:   summary.Health.WindowEnd,
		},
	}
	if summary.Latest != nil {
		latest := handler.newEntryView(*summary.Latest)
		view.Latest = &latest
	}
	return c.JSON(view)
}
