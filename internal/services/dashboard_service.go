package services

import (
	"context"
	"time"

	"github.com/terraincognita07/myfit/internal/models"
)

type DashboardEntryReader interface {
	ListEntries(userID uint) ([]models.LogEntry, error)
}

type DashboardSummary struct {
	Streak int
	Latest *models.LogEntry
	Health WeeklyHealth
}

type DashboardService struct {
	entries      DashboardEntryReader
	health       *WeeklyHealthReader
	location     *time.Location
	missingDates MissingDatePolicy
}

func NewDashboardService(entries DashboardEntryReader, healthReader *WeeklyHealthReader, location *time.Location, missingDates MissingDatePolicy) *DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardService{
		entries:      entries,
		health:       healthReader,
		location:     location,
		missingDates: missingDates,
	}
}

func (service *DashboardService) Resolver(now time.Time) DayResolver {
	return DayResolver{Now: now, Location: service.location, MissingDates: service.missingDates}
}

// Build assembles the dashboard. Only a failure to load the user's entries is
// returned; health data degrades to the last known values.
func (service *DashboardService) Build(ctx context.Context, userID uint, now time.Time) (DashboardSummary, error) {
	entries, err := service.entries.ListEntries(userID)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := DashboardSummary{
		Streak: ComputeStreak(entries, service.Resolver(now)),
	}
	if latest, found := LatestEntry(entries); found {
		summary.Latest = &latest
	}
	if service.health != nil {
		summary.Health = service.health.Read(ctx, now)
	}
	return summary, nil
}
