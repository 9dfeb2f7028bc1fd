package services

import (
	"time"

	"github.com/terraincognita07/myfit/internal/models"
)

type AnalyticsEntryReader interface {
	ListEntries(userID uint) ([]models.LogEntry, error)
}

type Trend struct {
	Range TimeRange
	Start time.Time
	End   time.Time
	Days  []DailyTotal
}

type AnalyticsService struct {
	entries      AnalyticsEntryReader
	location     *time.Location
	missingDates MissingDatePolicy
}

func NewAnalyticsService(entries AnalyticsEntryReader, location *time.Location, missingDates MissingDatePolicy) *AnalyticsService {
	if location == nil {
		location = time.UTC
	}
	return &AnalyticsService{
		entries:      entries,
		location:     location,
		missingDates: missingDates,
	}
}

func (service *AnalyticsService) resolver(now time.Time) DayResolver {
	return DayResolver{Now: now, Location: service.location, MissingDates: service.missingDates}
}

// Trend returns per-day totals from WindowStart(timeRange, now) onward, with
// calendar steps taken in the service location whatever zone now carries.
// The whole log is loaded because undated entries may resolve into the window.
func (service *AnalyticsService) Trend(userID uint, timeRange TimeRange, now time.Time) (Trend, error) {
	entries, err := service.entries.ListEntries(userID)
	if err != nil {
		return Trend{}, err
	}

	localNow := now.In(service.location)
	start := WindowStart(timeRange, localNow)
	return Trend{
		Range: timeRange,
		Start: start,
		End:   localNow,
		Days:  GroupByDay(entries, start, service.resolver(now)),
	}, nil
}

func (service *AnalyticsService) Calendar(userID uint, monthStart time.Time, now time.Time) (MonthCalendar, error) {
	entries, err := service.entries.ListEntries(userID)
	if err != nil {
		return MonthCalendar{}, err
	}
	return BuildMonthCalendar(monthStart, entries, service.resolver(now)), nil
}
