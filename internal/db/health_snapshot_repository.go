package db

import (
	"github.com/terraincognita07/myfit/internal/models"
	"gorm.io/gorm"
)

type HealthSnapshotRepository struct {
	database *gorm.DB
}

func NewHealthSnapshotRepository(database *gorm.DB) *HealthSnapshotRepository {
	return &HealthSnapshotRepository{database: database}
}

func (repo *HealthSnapshotRepository) Create(snapshot *models.HealthSnapshot) error {
	snapshot.WindowStart = snapshot.WindowStart.UTC()
	snapshot.WindowEnd = snapshot.WindowEnd.UTC()
	snapshot.FetchedAt = snapshot.FetchedAt.UTC()
	return repo.database.Create(snapshot).Error
}

func (repo *HealthSnapshotRepository) LatestByMetric(metric string) (models.HealthSnapshot, bool, error) {
	snapshot := models.HealthSnapshot{}
	result := repo.database.
		Where("metric = ?", metric).
		Order("fetched_at DESC, id DESC").
		Limit(1).
		Find(&snapshot)
	if result.Error != nil {
		return models.HealthSnapshot{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.HealthSnapshot{}, false, nil
	}
	return snapshot, true, nil
}
