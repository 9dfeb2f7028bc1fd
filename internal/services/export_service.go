package services

import (
	"sort"
	"strconv"
	"time"

	"github.com/terraincognita07/myfit/internal/models"
)

const (
	exportDateLayout = "2006-01-02"
	exportTimeLayout = "15:04"
)

var ExportCSVHeaders = []string{
	"Date",
	"Time",
	"Calories",
	"Protein",
	"Ref",
}

type ExportEntryReader interface {
	ListEntriesInRange(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]models.LogEntry, error)
}

type ExportService struct {
	entries ExportEntryReader
}

type ExportSummary struct {
	TotalEntries  int    `json:"total_entries"`
	HasData       bool   `json:"has_data"`
	DateFrom      string `json:"date_from"`
	DateTo        string `json:"date_to"`
	TotalCalories int64  `json:"total_calories"`
	TotalProtein  int64  `json:"total_protein"`
}

type ExportEntry struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Calories int64  `json:"calories"`
	Protein  int64  `json:"protein"`
	Ref      string `json:"ref"`
}

func NewExportService(entries ExportEntryReader) *ExportService {
	return &ExportService{entries: entries}
}

// BuildEntries returns the entries in the range oldest first. Undated entries
// keep empty date and time fields and come last.
func (service *ExportService) BuildEntries(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]ExportEntry, error) {
	logs, err := service.loadSorted(userID, from, to, location)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportEntry, 0, len(logs))
	for _, logEntry := range logs {
		entry := ExportEntry{
			Calories: logEntry.Calories,
			Protein:  logEntry.Protein,
			Ref:      logEntry.Ref,
		}
		if logEntry.Date != nil {
			localized := logEntry.Date.In(locationOrUTC(location))
			entry.Date = localized.Format(exportDateLayout)
			entry.Time = localized.Format(exportTimeLayout)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (service *ExportService) BuildSummary(userID uint, from *time.Time, to *time.Time, location *time.Location) (ExportSummary, error) {
	logs, err := service.loadSorted(userID, from, to, location)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(logs) == 0 {
		return ExportSummary{}, nil
	}

	summary := ExportSummary{TotalEntries: len(logs), HasData: true}
	for _, logEntry := range logs {
		summary.TotalCalories += logEntry.Calories
		summary.TotalProtein += logEntry.Protein
		if logEntry.Date == nil {
			continue
		}
		day := DateAtLocation(*logEntry.Date, location).Format(exportDateLayout)
		if summary.DateFrom == "" || day < summary.DateFrom {
			summary.DateFrom = day
		}
		if day > summary.DateTo {
			summary.DateTo = day
		}
	}
	return summary, nil
}

func (entry ExportEntry) Columns() []string {
	return []string{
		entry.Date,
		entry.Time,
		strconv.FormatInt(entry.Calories, 10),
		strconv.FormatInt(entry.Protein, 10),
		entry.Ref,
	}
}

func (service *ExportService) loadSorted(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]models.LogEntry, error) {
	logs, err := service.entries.ListEntriesInRange(userID, from, to, location)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(logs, func(i, j int) bool {
		left, right := logs[i], logs[j]
		switch {
		case left.Date == nil && right.Date == nil:
			return left.ID < right.ID
		case left.Date == nil:
			return false
		case right.Date == nil:
			return true
		case left.Date.Equal(*right.Date):
			return left.ID < right.ID
		default:
			return left.Date.Before(*right.Date)
		}
	})
	return logs, nil
}

func locationOrUTC(location *time.Location) *time.Location {
	if location == nil {
		return time.UTC
	}
	return location
}
