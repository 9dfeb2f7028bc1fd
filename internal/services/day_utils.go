package services

import (
	"errors"
	"strings"
	"time"
)

const dayKeyLayout = "2006-01-02"

var ErrEntryDateInvalid = errors.New("entry date invalid")

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

func dayKey(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(dayKeyLayout)
}

// ParseDayInLocation parses a YYYY-MM-DD value as midnight in location.
func ParseDayInLocation(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(dayKeyLayout, raw, location)
	if err != nil {
		return time.Time{}, err
	}
	return DateAtLocation(parsed, location), nil
}

// ParseEntryDate accepts RFC3339 timestamps or a bare YYYY-MM-DD day, which is
// stamped with the current local clock time. An empty value returns nil so the
// store falls back to now.
func ParseEntryDate(raw string, now time.Time, location *time.Location) (*time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}

	day, err := ParseDayInLocation(trimmed, location)
	if err != nil {
		return nil, ErrEntryDateInvalid
	}
	clock := now.In(location)
	stamped := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, location)
	return &stamped, nil
}
