package db

import (
	"time"

	"github.com/terraincognita07/myfit/internal/models"
	"gorm.io/gorm"
)

type LogEntryRepository struct {
	database *gorm.DB
}

func NewLogEntryRepository(database *gorm.DB) *LogEntryRepository {
	return &LogEntryRepository{database: database}
}

// ListByUser returns every entry of the user, most recent first. Entries
// without a date sort last.
func (repo *LogEntryRepository) ListByUser(userID uint) ([]models.LogEntry, error) {
	entries := make([]models.LogEntry, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("date IS NULL ASC, date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUserRange returns dated entries with fromStart <= date < toEnd, most
// recent first. A nil bound leaves that side open.
func (repo *LogEntryRepository) ListByUserRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.LogEntry, error) {
	query := repo.database.Model(&models.LogEntry{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("date >= ?", fromStart.UTC())
	}
	if toEnd != nil {
		query = query.Where("date < ?", toEnd.UTC())
	}

	entries := make([]models.LogEntry, 0)
	if err := query.Order("date IS NULL ASC, date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *LogEntryRepository) Create(entry *models.LogEntry) error {
	if entry.Date != nil {
		stored := entry.Date.UTC()
		entry.Date = &stored
	}
	return repo.database.Transaction(func(tx *gorm.DB) error {
		return tx.Create(entry).Error
	})
}

// DeleteByRef removes the user's entry with the given ref and reports whether a
// row was deleted.
func (repo *LogEntryRepository) DeleteByRef(userID uint, ref string) (bool, error) {
	deleted := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND ref = ?", userID, ref).Delete(&models.LogEntry{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
