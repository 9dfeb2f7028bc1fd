package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/myfit/internal/metrics"
	"github.com/terraincognita07/myfit/internal/models"
)

var (
	ErrInvalidLogInput      = errors.New("invalid log input")
	ErrLogEntryNotFound     = errors.New("log entry not found")
	ErrLogEntryListFailed   = errors.New("list log entries failed")
	ErrLogEntryCreateFailed = errors.New("create log entry failed")
	ErrLogEntryDeleteFailed = errors.New("delete log entry failed")
)

type LogEntryRepository interface {
	ListByUser(userID uint) ([]models.LogEntry, error)
	ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.LogEntry, error)
	Create(entry *models.LogEntry) error
	DeleteByRef(userID uint, ref string) (bool, error)
}

type LogEntryInput struct {
	Date     *time.Time
	Calories int64
	Protein  int64
}

func ValidateLogEntryInput(input LogEntryInput) error {
	if input.Calories <= 0 || input.Protein <= 0 {
		return ErrInvalidLogInput
	}
	return nil
}

// LogService is the log store: every mutation is validated, persisted in a
// single transaction, then announced to subscribers of the owning user.
type LogService struct {
	entries LogEntryRepository
	log     *logrus.Logger
	metrics *metrics.Metrics
	changes *logBroadcaster
	now     func() time.Time
	newRef  func() string
}

func NewLogService(entries LogEntryRepository, logger *logrus.Logger, recorder *metrics.Metrics) *LogService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogService{
		entries: entries,
		log:     logger,
		metrics: recorder,
		changes: newLogBroadcaster(recorder.RecordDroppedChange),
		now:     time.Now,
		newRef:  uuid.NewString,
	}
}

func (service *LogService) ListEntries(userID uint) ([]models.LogEntry, error) {
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		service.log.WithFields(logrus.Fields{
			"op":      "list_entries",
			"user_id": userID,
		}).WithError(err).Error("failed to load log entries")
		return nil, ErrLogEntryListFailed
	}
	return entries, nil
}

// ListEntriesInRange returns entries whose local day lies within [from, to].
// A nil bound leaves that side open.
func (service *LogService) ListEntriesInRange(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]models.LogEntry, error) {
	var fromStart *time.Time
	var toEnd *time.Time
	if from != nil {
		start, _ := DayRange(*from, location)
		fromStart = &start
	}
	if to != nil {
		_, end := DayRange(*to, location)
		toEnd = &end
	}

	entries, err := service.entries.ListByUserRange(userID, fromStart, toEnd)
	if err != nil {
		service.log.WithFields(logrus.Fields{
			"op":      "list_entries_range",
			"user_id": userID,
		}).WithError(err).Error("failed to load log entries")
		return nil, ErrLogEntryListFailed
	}
	return entries, nil
}

func (service *LogService) AddEntry(userID uint, input LogEntryInput) (models.LogEntry, error) {
	if err := ValidateLogEntryInput(input); err != nil {
		service.metrics.RecordLogMutation(LogChangeCreated, metrics.OutcomeInvalid)
		return models.LogEntry{}, err
	}

	date := service.now()
	if input.Date != nil {
		date = *input.Date
	}

	entry := models.LogEntry{
		Ref:      service.newRef(),
		UserID:   userID,
		Date:     &date,
		Calories: input.Calories,
		Protein:  input.Protein,
	}
	if err := service.entries.Create(&entry); err != nil {
		service.log.WithFields(logrus.Fields{
			"op":       "add_entry",
			"user_id":  userID,
			"calories": input.Calories,
			"protein":  input.Protein,
		}).WithError(err).Error("failed to persist log entry")
		service.metrics.RecordLogMutation(LogChangeCreated, metrics.OutcomeError)
		return models.LogEntry{}, ErrLogEntryCreateFailed
	}

	service.metrics.RecordLogMutation(LogChangeCreated, metrics.OutcomeSuccess)
	service.changes.publish(LogChange{Kind: LogChangeCreated, Ref: entry.Ref, UserID: userID, At: service.now()})
	return entry, nil
}

func (service *LogService) DeleteEntry(userID uint, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		service.metrics.RecordLogMutation(LogChangeDeleted, metrics.OutcomeNotFound)
		return ErrLogEntryNotFound
	}

	deleted, err := service.entries.DeleteByRef(userID, ref)
	if err != nil {
		service.log.WithFields(logrus.Fields{
			"op":      "delete_entry",
			"user_id": userID,
			"ref":     ref,
		}).WithError(err).Error("failed to delete log entry")
		service.metrics.RecordLogMutation(LogChangeDeleted, metrics.OutcomeError)
		return ErrLogEntryDeleteFailed
	}
	if !deleted {
		service.metrics.RecordLogMutation(LogChangeDeleted, metrics.OutcomeNotFound)
		return ErrLogEntryNotFound
	}

	service.metrics.RecordLogMutation(LogChangeDeleted, metrics.OutcomeSuccess)
	service.changes.publish(LogChange{Kind: LogChangeDeleted, Ref: ref, UserID: userID, At: service.now()})
	return nil
}

// Subscribe registers for the user's committed changes. The returned cancel
// function unregisters and closes the channel; it is safe to call twice.
func (service *LogService) Subscribe(userID uint) (<-chan LogChange, func()) {
	return service.changes.subscribe(userID)
}

func (service *LogService) DroppedChanges() int64 {
	return service.changes.droppedCount()
}
