package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/myfit/internal/api"
	"github.com/terraincognita07/myfit/internal/config"
	"github.com/terraincognita07/myfit/internal/db"
	"github.com/terraincognita07/myfit/internal/health"
	"github.com/terraincognita07/myfit/internal/logging"
	"github.com/terraincognita07/myfit/internal/metrics"
	"github.com/terraincognita07/myfit/internal/services"
)

// runtime is the wired service graph for one command run.
type runtime struct {
	cfg      config.Config
	location *time.Location
	log      *logrus.Logger
	metrics  *metrics.Metrics
	deps     api.Dependencies
	close    func() error
}

// openRuntime wires logger, database, health provider and services from cfg.
// Log output goes to logOut; commands that print their own output pass stderr.
func openRuntime(cfg config.Config, logOut io.Writer) (*runtime, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return nil, err
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	missingDates, err := services.ParseMissingDatePolicy(cfg.MissingDatePolicy)
	if err != nil {
		return nil, err
	}

	provider, err := newHealthProvider(cfg)
	if err != nil {
		return nil, err
	}

	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	recorder := metrics.New()
	deps := api.BuildDependencies(database, provider, logger, recorder, api.DependencySettings{
		Location:     location,
		MissingDates: missingDates,
	})

	return &runtime{
		cfg:      cfg,
		location: location,
		log:      logger,
		metrics:  recorder,
		deps:     deps,
		close:    sqlDB.Close,
	}, nil
}

func newHealthProvider(cfg config.Config) (health.Provider, error) {
	if !cfg.HealthEnabled() {
		return health.StaticProvider{}, nil
	}
	provider, err := health.NewHTTPProvider(health.HTTPProviderOptions{
		BaseURL:           cfg.Health.BaseURL,
		Token:             cfg.Health.Token,
		EnergyPath:        cfg.Health.EnergyPath,
		StepsPath:         cfg.Health.StepsPath,
		Timeout:           cfg.Health.Timeout,
		RequestsPerSecond: cfg.Health.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("health provider init failed: %w", err)
	}
	return provider, nil
}
