package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/myfit/internal/metrics"
)

var ErrHealthSyncAlreadyStarted = errors.New("health sync already started")

// HealthSyncService refreshes the weekly health snapshots on a cron schedule
// so the dashboard has recent last-known values when a live read fails.
type HealthSyncService struct {
	reader   *WeeklyHealthReader
	schedule string
	log      *logrus.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu        sync.Mutex
	scheduler *cron.Cron
}

func NewHealthSyncService(reader *WeeklyHealthReader, schedule string, logger *logrus.Logger, recorder *metrics.Metrics) *HealthSyncService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HealthSyncService{
		reader:   reader,
		schedule: strings.TrimSpace(schedule),
		log:      logger,
		metrics:  recorder,
		now:      time.Now,
	}
}

// Start registers the sync job and returns immediately. An empty schedule
// disables the job. The scheduler stops when ctx is cancelled.
func (service *HealthSyncService) Start(ctx context.Context) error {
	if service.schedule == "" {
		service.log.Info("health sync disabled")
		return nil
	}

	service.mu.Lock()
	defer service.mu.Unlock()
	if service.scheduler != nil {
		return ErrHealthSyncAlreadyStarted
	}

	cronLogger := cron.PrintfLogger(service.log)
	scheduler := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := scheduler.AddFunc(service.schedule, func() {
		service.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("parse health sync schedule %q: %w", service.schedule, err)
	}

	scheduler.Start()
	service.scheduler = scheduler
	service.log.WithField("schedule", service.schedule).Info("health sync started")

	go func() {
		<-ctx.Done()
		service.Stop()
	}()
	return nil
}

// Stop waits for a running job to finish. It is a no-op when not started.
func (service *HealthSyncService) Stop() {
	service.mu.Lock()
	scheduler := service.scheduler
	service.scheduler = nil
	service.mu.Unlock()

	if scheduler == nil {
		return
	}
	<-scheduler.Stop().Done()
	service.log.Info("health sync stopped")
}

// RunOnce performs one refresh and returns the weekly readings. The sync run is
// counted as a success only when both metrics were read live.
func (service *HealthSyncService) RunOnce(ctx context.Context) WeeklyHealth {
	result := service.reader.Read(ctx, service.now())

	outcome := metrics.OutcomeSuccess
	if result.EnergyBurned.Source != HealthSourceLive || result.StepCount.Source != HealthSourceLive {
		outcome = metrics.OutcomeNoData
	}
	service.metrics.RecordHealthSync(outcome)
	service.log.WithFields(logrus.Fields{
		"energy_source": result.EnergyBurned.Source,
		"steps_source":  result.StepCount.Source,
	}).Debug("health sync finished")
	return result
}
