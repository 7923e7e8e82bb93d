package models

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UserRecipe is the model for a recipe uploaded by a user. Uploads start in
// pending status and become visible to other users only after moderation.
type UserRecipe struct {
	gorm.Model
	Title        string
	Summary      string
	ImageURL     string
	SourceURL    string
	Ingredients  pq.StringArray `gorm:"type:text[]"`
	Instructions pq.StringArray `gorm:"type:text[]"`
	Diets        pq.StringArray `gorm:"type:text[]"`
	DishTypes    pq.StringArray `gorm:"type:text[]"`
	ReadyMinutes int
	PrepMinutes  int
	CookMinutes  int
	Servings     int
	CreatedByID  uint  `gorm:"index"`
	CreatedBy    *User `gorm:"foreignKey:CreatedByID"`
	Status       ModerationStatus `gorm:"type:text;default:'pending';index"`
	// Flagged is set automatically when the upload trips the profanity
	// screen; flagged uploads surface first in the moderation queue.
	Flagged      bool   `gorm:"default:false"`
	ReviewNote   string `gorm:"default:null"`
	ReviewedByID *uint  `gorm:"index"`
}

// ModerationStatus is the type for the ModerationStatus enum.
type ModerationStatus string

// ModerationStatus enum values.
const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// IsValidStatus checks if the ModerationStatus is valid.
func (r *UserRecipe) IsValidStatus() bool {
	switch r.Status {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new UserRecipe.
func (r *UserRecipe) BeforeCreate(tx *gorm.DB) (err error) {
	if !r.IsValidStatus() {
		r.Status = ModerationPending
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a UserRecipe.
func (r *UserRecipe) BeforeUpdate(tx *gorm.DB) (err error) {
	if !r.IsValidStatus() {
		return errors.New("invalid ModerationStatus provided")
	}
	return nil
}

// CachedRecipe is the model for an upstream recipe imported into the local
// cache by the admin backfill. Rows are upserted by SourceID.
type CachedRecipe struct {
	gorm.Model
	SourceID     int64 `gorm:"uniqueIndex;not null"`
	Title        string
	Summary      string
	ImageURL     string
	SourceURL    string
	Ingredients  pq.StringArray `gorm:"type:text[]"`
	Diets        pq.StringArray `gorm:"type:text[]"`
	DishTypes    pq.StringArray `gorm:"type:text[]"`
	ReadyMinutes int
	CookMinutes  int
	Servings     int
}
