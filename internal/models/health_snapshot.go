package models

import "time"

const (
	HealthMetricEnergyBurned = "energy_burned"
	HealthMetricStepCount    = "step_count"
)

type HealthSnapshot struct {
	ID          uint      `gorm:"primaryKey"`
	Metric      string    `gorm:"not null;index:idx_health_snapshots_metric_fetched"`
	WindowStart time.Time `gorm:"not null"`
	WindowEnd   time.Time `gorm:"not null"`
	Value       float64   `gorm:"not null"`
	FetchedAt   time.Time `gorm:"not null;index:idx_health_snapshots_metric_fetched"`
}
