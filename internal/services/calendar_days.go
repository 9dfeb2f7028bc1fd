package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/myfit/internal/models"
)

var ErrCalendarMonthInvalid = errors.New("calendar month invalid")

type CalendarDayState struct {
	Date       time.Time
	DateString string
	Day        int
	InMonth    bool
	IsToday    bool
	Logged     bool
	Calories   int64
	Protein    int64
}

// MonthCalendar is a Sunday-first grid covering whole weeks around one month.
// LeadingOffset is the weekday index of the first day of the month.
type MonthCalendar struct {
	Month         time.Time
	LeadingOffset int
	Days          []CalendarDayState
}

// ParseCalendarMonth reads a YYYY-MM value; an empty value selects the month
// of now.
func ParseCalendarMonth(raw string, now time.Time, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		today := DateAtLocation(now, location)
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, location), nil
	}
	parsed, err := time.ParseInLocation("2006-01", trimmed, location)
	if err != nil {
		return time.Time{}, ErrCalendarMonthInvalid
	}
	return parsed, nil
}

// CalendarLogRange returns the [from, to) instants covered by the month grid.
func CalendarLogRange(monthStart time.Time) (time.Time, time.Time) {
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))
	return gridStart, gridEnd.AddDate(0, 0, 1)
}

func BuildMonthCalendar(monthStart time.Time, entries []models.LogEntry, resolver DayResolver) MonthCalendar {
	location := resolver.location()
	monthStart = DateAtLocation(monthStart, location)
	monthStart = monthStart.AddDate(0, 0, 1-monthStart.Day())

	gridStart, gridEndExclusive := CalendarLogRange(monthStart)

	totalsByDay := make(map[string]DailyTotal)
	for _, total := range GroupByDay(entries, gridStart, resolver) {
		totalsByDay[total.Day.Format(dayKeyLayout)] = total
	}

	now := resolver.Now
	if now.IsZero() {
		now = time.Now()
	}
	todayKey := dayKey(now, location)

	days := make([]CalendarDayState, 0, 42)
	for day := gridStart; day.Before(gridEndExclusive); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayKeyLayout)
		total, logged := totalsByDay[key]
		days = append(days, CalendarDayState{
			Date:       day,
			DateString: key,
			Day:        day.Day(),
			InMonth:    day.Month() == monthStart.Month(),
			IsToday:    key == todayKey,
			Logged:     logged,
			Calories:   total.Calories,
			Protein:    total.Protein,
		})
	}

	return MonthCalendar{
		Month:         monthStart,
		LeadingOffset: int(monthStart.Weekday()),
		Days:          days,
	}
}
