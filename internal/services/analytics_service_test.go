package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/myfit/internal/models"
)

func TestAnalyticsTrendUsesRangeWindow(t *testing.T) {
	now := mustParseAggregationDay(t, "2024-01-31 12:00")
	entries := []models.LogEntry{
		datedEntry(t, 1, "2024-01-31 08:00", 2000, 100),
		datedEntry(t, 2, "2024-01-26 08:00", 1800, 90),
		datedEntry(t, 3, "2024-01-10 08:00", 1700, 80),
		datedEntry(t, 4, "2023-11-15 08:00", 1600, 70),
	}
	service := NewAnalyticsService(dashboardEntryReaderStub{entries: entries}, time.UTC, MissingDateAsNow)

	tests := []struct {
		timeRange TimeRange
		wantDays  int
	}{
		{timeRange: PastWeek, wantDays: 2},
		{timeRange: PastMonth, wantDays: 3},
		{timeRange: PastThreeMonths, wantDays: 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.timeRange), func(t *testing.T) {
			trend, err := service.Trend(1, tt.timeRange, now)
			if err != nil {
				t.Fatalf("Trend() unexpected error: %v", err)
			}
			if len(trend.Days) != tt.wantDays {
				t.Fatalf("expected %d days, got %#v", tt.wantDays, trend.Days)
			}
			if !trend.Start.Equal(WindowStart(tt.timeRange, now)) || !trend.End.Equal(now) {
				t.Fatalf("unexpected trend window %s..%s", trend.Start, trend.End)
			}
		})
	}
}

func TestAnalyticsCalendar(t *testing.T) {
	now := mustParseAggregationDay(t, "2024-01-31 12:00")
	entries := []models.LogEntry{
		datedEntry(t, 1, "2024-01-15 08:00", 2000, 100),
	}
	service := NewAnalyticsService(dashboardEntryReaderStub{entries: entries}, time.UTC, MissingDateSkip)

	calendar, err := service.Calendar(1, mustParseAggregationDay(t, "2024-01-01 00:00"), now)
	if err != nil {
		t.Fatalf("Calendar() unexpected error: %v", err)
	}
	day := findCalendarDayStateByDateString(t, calendar.Days, "2024-01-15")
	if !day.Logged || day.Calories != 2000 {
		t.Fatalf("expected logged 2024-01-15, got %+v", day)
	}
}

func TestAnalyticsPropagatesLoadErrors(t *testing.T) {
	service := NewAnalyticsService(dashboardEntryReaderStub{err: ErrLogEntryListFailed}, nil, MissingDateAsNow)

	if _, err := service.Trend(1, PastWeek, time.Now()); !errors.Is(err, ErrLogEntryListFailed) {
		t.Fatalf("expected ErrLogEntryListFailed from Trend, got %v", err)
	}
	if _, err := service.Calendar(1, time.Now(), time.Now()); !errors.Is(err, ErrLogEntryListFailed) {
		t.Fatalf("expected ErrLogEntryListFailed from Calendar, got %v", err)
	}
}

func TestAnalyticsTrendStepsMonthsInServiceLocation(t *testing.T) {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	entryDate := time.Date(2024, time.February, 28, 23, 0, 0, 0, location)
	entries := []models.LogEntry{{ID: 1, Ref: "late-february", Date: &entryDate, Calories: 900, Protein: 40}}
	service := NewAnalyticsService(dashboardEntryReaderStub{entries: entries}, location, MissingDateAsNow)

	instant := time.Date(2024, time.March, 31, 2, 0, 0, 0, time.UTC)
	fromUTC, err := service.Trend(1, PastMonth, instant)
	if err != nil {
		t.Fatalf("Trend() unexpected error: %v", err)
	}
	fromLocal, err := service.Trend(1, PastMonth, instant.In(location))
	if err != nil {
		t.Fatalf("Trend() unexpected error: %v", err)
	}

	wantStart := time.Date(2024, time.February, 29, 22, 0, 0, 0, location)
	for name, trend := range map[string]Trend{"utc now": fromUTC, "local now": fromLocal} {
		if !trend.Start.Equal(wantStart) {
			t.Fatalf("%s: expected start %s, got %s", name, wantStart, trend.Start)
		}
		if len(trend.Days) != 0 {
			t.Fatalf("%s: expected entry before the window to be excluded, got %#v", name, trend.Days)
		}
	}
}
