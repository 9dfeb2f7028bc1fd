package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/myfit/internal/models"
)

var ErrMissingDatePolicyInvalid = errors.New("missing date policy invalid")

// MissingDatePolicy decides how entries stored without a date take part in
// grouping and streaks.
type MissingDatePolicy string

const (
	// MissingDateAsNow treats an undated entry as logged at the resolver's Now.
	MissingDateAsNow MissingDatePolicy = "now"
	// MissingDateSkip leaves undated entries out of every aggregate.
	MissingDateSkip MissingDatePolicy = "skip"
)

func ParseMissingDatePolicy(raw string) (MissingDatePolicy, error) {
	switch MissingDatePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MissingDateAsNow:
		return MissingDateAsNow, nil
	case MissingDateSkip:
		return MissingDateSkip, nil
	default:
		return "", ErrMissingDatePolicyInvalid
	}
}

// DayResolver maps entries onto instants and calendar days.
type DayResolver struct {
	Now          time.Time
	Location     *time.Location
	MissingDates MissingDatePolicy
}

func (resolver DayResolver) location() *time.Location {
	if resolver.Location == nil {
		return time.UTC
	}
	return resolver.Location
}

// Resolve returns the instant an entry counts at, or false when the entry is
// excluded by the missing-date policy.
func (resolver DayResolver) Resolve(entry models.LogEntry) (time.Time, bool) {
	if entry.Date != nil {
		return *entry.Date, true
	}
	if resolver.MissingDates == MissingDateSkip {
		return time.Time{}, false
	}
	if resolver.Now.IsZero() {
		return time.Now(), true
	}
	return resolver.Now, true
}

type DailyTotal struct {
	Day      time.Time
	Calories int64
	Protein  int64
}

// GroupByDay sums calories and protein per calendar day for entries at or after
// startDate. Days come back in ascending order, each at most once.
func GroupByDay(entries []models.LogEntry, startDate time.Time, resolver DayResolver) []DailyTotal {
	location := resolver.location()
	indexByDay := make(map[string]int)
	totals := make([]DailyTotal, 0)

	for _, entry := range entries {
		instant, ok := resolver.Resolve(entry)
		if !ok || instant.Before(startDate) {
			continue
		}

		day := DateAtLocation(instant, location)
		key := day.Format(dayKeyLayout)
		index, exists := indexByDay[key]
		if !exists {
			index = len(totals)
			indexByDay[key] = index
			totals = append(totals, DailyTotal{Day: day})
		}
		totals[index].Calories += entry.Calories
		totals[index].Protein += entry.Protein
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Day.Before(totals[j].Day)
	})
	return totals
}

// ComputeStreak counts consecutive calendar days ending at the most recent
// logged day. Several entries on one day count once.
func ComputeStreak(entries []models.LogEntry, resolver DayResolver) int {
	location := resolver.location()
	seen := make(map[string]struct{})
	days := make([]time.Time, 0, len(entries))

	for _, entry := range entries {
		instant, ok := resolver.Resolve(entry)
		if !ok {
			continue
		}
		day := DateAtLocation(instant, location)
		key := day.Format(dayKeyLayout)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})

	streak := 1
	for index := 1; index < len(days); index++ {
		if !days[index].Equal(days[index-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

// LatestEntry returns the most recent dated entry. Ties on the date go to the
// entry created last.
func LatestEntry(entries []models.LogEntry) (models.LogEntry, bool) {
	var latest models.LogEntry
	found := false
	for _, entry := range entries {
		if entry.Date == nil {
			continue
		}
		if !found || entry.Date.After(*latest.Date) ||
			(entry.Date.Equal(*latest.Date) && entry.ID > latest.ID) {
			latest = entry
			found = true
		}
	}
	return latest, found
}
