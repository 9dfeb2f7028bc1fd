package api

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/myfit/internal/db"
	"github.com/terraincognita07/myfit/internal/health"
	"github.com/terraincognita07/myfit/internal/metrics"
	"github.com/terraincognita07/myfit/internal/services"
	"gorm.io/gorm"
)

// Dependencies carries the services the HTTP layer calls into.
type Dependencies struct {
	Repositories *db.Repositories
	Auth         *services.AuthService
	Logs         *services.LogService
	HealthReader *services.WeeklyHealthReader
	Dashboard    *services.DashboardService
	Analytics    *services.AnalyticsService
	Export       *services.ExportService
	Metrics      *metrics.Metrics
	Logger       *logrus.Logger
}

type DependencySettings struct {
	Location     *time.Location
	MissingDates services.MissingDatePolicy
}

// BuildDependencies wires repositories and services over one database handle.
// A nil provider behaves as an unconfigured health source.
func BuildDependencies(database *gorm.DB, provider health.Provider, logger *logrus.Logger, recorder *metrics.Metrics, settings DependencySettings) Dependencies {
	repositories := db.NewRepositories(database)
	logs := services.NewLogService(repositories.LogEntries, logger, recorder)
	healthReader := services.NewWeeklyHealthReader(provider, repositories.HealthSnapshots, logger, recorder)

	return Dependencies{
		Repositories: repositories,
		Auth:         services.NewAuthService(repositories.Users),
		Logs:         logs,
		HealthReader: healthReader,
		Dashboard:    services.NewDashboardService(logs, healthReader, settings.Location, settings.MissingDates),
		Analytics:    services.NewAnalyticsService(logs, settings.Location, settings.MissingDates),
		Export:       services.NewExportService(logs),
		Metrics:      recorder,
		Logger:       logger,
	}
}
