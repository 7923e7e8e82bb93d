package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackfillRun is the model for one admin-triggered batched import from the
// upstream recipe source.
type BackfillRun struct {
	gorm.Model
	RunID       uuid.UUID     `gorm:"type:uuid;uniqueIndex"`
	Tags        string        // comma-separated upstream tags, empty = random
	BatchSize   int
	Batches     int
	Imported    int `gorm:"default:0"`
	Failed      int `gorm:"default:0"`
	Status      BackfillStatus `gorm:"type:text;default:'running'"`
	StartedByID uint           `gorm:"index"`
	FinishedAt  *time.Time
	LastError   string `gorm:"default:null"`
}

// BackfillStatus is the type for the BackfillStatus enum.
type BackfillStatus string

// BackfillStatus enum values.
const (
	BackfillRunning   BackfillStatus = "running"
	BackfillCompleted BackfillStatus = "completed"
	BackfillFailed    BackfillStatus = "failed"
)

// QuotaSnapshot is the model for a periodic record of upstream API quota
// usage, kept so the admin dashboard can chart consumption over time.
type QuotaSnapshot struct {
	gorm.Model
	Used      float64
	Remaining float64
	Exhausted bool
}
