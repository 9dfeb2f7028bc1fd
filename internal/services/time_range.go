package services

import (
	"errors"
	"strings"
	"time"
)

var ErrTimeRangeInvalid = errors.New("time range invalid")

type TimeRange string

const (
	PastWeek        TimeRange = "week"
	PastMonth       TimeRange = "month"
	PastThreeMonths TimeRange = "3months"
)

var timeRangeLabels = map[TimeRange]string{
	PastWeek:        "Past Week",
	PastMonth:       "Past Month",
	PastThreeMonths: "Past 3 Months",
}

func TimeRanges() []TimeRange {
	return []TimeRange{PastWeek, PastMonth, PastThreeMonths}
}

func (timeRange TimeRange) Label() string {
	return timeRangeLabels[timeRange]
}

// ParseTimeRange accepts the query values and the display labels. An empty
// value selects the past week.
func ParseTimeRange(raw string) (TimeRange, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return PastWeek, nil
	}
	for timeRange, label := range timeRangeLabels {
		if normalized == string(timeRange) || normalized == strings.ToLower(label) {
			return timeRange, nil
		}
	}
	return "", ErrTimeRangeInvalid
}

// WindowStart subtracts the range from reference. Month steps clamp to the end
// of shorter months, so March 31 minus one month is the last day of February.
func WindowStart(timeRange TimeRange, reference time.Time) time.Time {
	switch timeRange {
	case PastMonth:
		return addMonthsClamped(reference, -1)
	case PastThreeMonths:
		return addMonthsClamped(reference, -3)
	default:
		return reference.AddDate(0, 0, -7)
	}
}

func addMonthsClamped(value time.Time, months int) time.Time {
	year, month, day := value.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, value.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	hour, minute, second := value.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, minute, second, value.Nanosecond(), value.Location())
}
