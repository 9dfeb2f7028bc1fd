package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/myfit/internal/health"
	"github.com/terraincognita07/myfit/internal/metrics"
	"github.com/terraincognita07/myfit/internal/models"
)

const (
	HealthSourceLive   = "live"
	HealthSourceCached = "cached"
	HealthSourceNone   = "none"
)

const healthWindowDays = 7

type HealthSnapshotStore interface {
	Create(snapshot *models.HealthSnapshot) error
	LatestByMetric(metric string) (models.HealthSnapshot, bool, error)
}

type HealthReading struct {
	Value     float64
	Source    string
	FetchedAt *time.Time
}

type WeeklyHealth struct {
	WindowStart  time.Time
	WindowEnd    time.Time
	EnergyBurned HealthReading
	StepCount    HealthReading
}

// WeeklyHealthReader reads the trailing-week totals from the provider. A failed
// read never surfaces as an error: the reading falls back to the last stored
// snapshot, or zero when there is none.
type WeeklyHealthReader struct {
	provider  health.Provider
	snapshots HealthSnapshotStore
	log       *logrus.Logger
	metrics   *metrics.Metrics
}

func NewWeeklyHealthReader(provider health.Provider, snapshots HealthSnapshotStore, logger *logrus.Logger, recorder *metrics.Metrics) *WeeklyHealthReader {
	if provider == nil {
		provider = health.StaticProvider{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WeeklyHealthReader{
		provider:  provider,
		snapshots: snapshots,
		log:       logger,
		metrics:   recorder,
	}
}

type healthFetchFunc func(ctx context.Context, start time.Time, end time.Time) (float64, error)

func (reader *WeeklyHealthReader) Read(ctx context.Context, now time.Time) WeeklyHealth {
	start := now.AddDate(0, 0, -healthWindowDays)
	result := WeeklyHealth{WindowStart: start, WindowEnd: now}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.EnergyBurned = reader.readMetric(ctx, models.HealthMetricEnergyBurned, reader.provider.FetchEnergyBurned, start, now)
	}()
	go func() {
		defer wg.Done()
		result.StepCount = reader.readMetric(ctx, models.HealthMetricStepCount, reader.provider.FetchStepCount, start, now)
	}()
	wg.Wait()

	return result
}

func (reader *WeeklyHealthReader) readMetric(ctx context.Context, metric string, fetch healthFetchFunc, start time.Time, end time.Time) HealthReading {
	value, err := fetch(ctx, start, end)
	if err == nil {
		fetchedAt := time.Now().UTC()
		reader.metrics.RecordHealthFetch(metric, metrics.OutcomeSuccess)
		reader.storeSnapshot(metric, start, end, value, fetchedAt)
		return HealthReading{Value: value, Source: HealthSourceLive, FetchedAt: &fetchedAt}
	}

	outcome := metrics.OutcomeError
	if errors.Is(err, health.ErrNoData) {
		outcome = metrics.OutcomeNoData
	}
	reader.metrics.RecordHealthFetch(metric, outcome)
	reader.log.WithFields(logrus.Fields{
		"metric": metric,
		"start":  start.Format(time.RFC3339),
		"end":    end.Format(time.RFC3339),
	}).WithError(err).Debug("health fetch failed, using last known value")

	return reader.lastKnown(metric)
}

func (reader *WeeklyHealthReader) storeSnapshot(metric string, start time.Time, end time.Time, value float64, fetchedAt time.Time) {
	if reader.snapshots == nil {
		return
	}
	snapshot := models.HealthSnapshot{
		Metric:      metric,
		WindowStart: start,
		WindowEnd:   end,
		Value:       value,
		FetchedAt:   fetchedAt,
	}
	if err := reader.snapshots.Create(&snapshot); err != nil {
		reader.log.WithField("metric", metric).WithError(err).Warn("failed to store health snapshot")
	}
}

func (reader *WeeklyHealthReader) lastKnown(metric string) HealthReading {
	if reader.snapshots == nil {
		return HealthReading{Source: HealthSourceNone}
	}
	snapshot, found, err := reader.snapshots.LatestByMetric(metric)
	if err != nil {
		reader.log.WithField("metric", metric).WithError(err).Warn("failed to load health snapshot")
		return HealthReading{Source: HealthSourceNone}
	}
	if !found {
		return HealthReading{Source: HealthSourceNone}
	}
	fetchedAt := snapshot.FetchedAt
	return HealthReading{Value: snapshot.Value, Source: HealthSourceCached, FetchedAt: &fetchedAt}
}
