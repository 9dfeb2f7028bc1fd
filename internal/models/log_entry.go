package models

import "time"

// LogEntry is one submitted record of calorie and protein intake. Date keeps the
// time of day it was stored with; aggregation only looks at its calendar day.
// A nil Date marks a legacy or imported row without a usable date.
type LogEntry struct {
	ID        uint       `gorm:"primaryKey" json:"-"`
	Ref       string     `gorm:"not null;uniqueIndex" json:"ref"`
	UserID    uint       `gorm:"not null;index" json:"-"`
	Date      *time.Time `gorm:"index" json:"date"`
	Calories  int64      `gorm:"not null;default:0" json:"calories"`
	Protein   int64      `gorm:"not null;default:0" json:"protein"`
	CreatedAt time.Time  `json:"created_at"`
}
