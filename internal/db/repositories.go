package db

import "gorm.io/gorm"

type Repositories struct {
	Users           *UserRepository
	LogEntries      *LogEntryRepository
	HealthSnapshots *HealthSnapshotRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:           NewUserRepository(database),
		LogEntries:      NewLogEntryRepository(database),
		HealthSnapshots: NewHealthSnapshotRepository(database),
	}
}
