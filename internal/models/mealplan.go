package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// MealPlan is the model for one user's plan for one week. WeekStart is
// normalized to the Monday of the week at midnight UTC.
type MealPlan struct {
	gorm.Model
	UserID    uint      `gorm:"index;uniqueIndex:idx_user_week"`
	WeekStart time.Time `gorm:"uniqueIndex:idx_user_week"`
	Name      string    `gorm:"default:null"`
	Entries   []MealPlanEntry `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// MealPlanEntry is the model for a single planned meal: one recipe in one
// slot on one day of the week.
type MealPlanEntry struct {
	gorm.Model
	PlanID   uint     `gorm:"index"`
	Day      int      // 0 = Monday .. 6 = Sunday
	Slot     MealSlot `gorm:"type:text"`
	RecipeID string   // unified recipe id: local or re-stringified upstream
	Title    string   // denormalized for display without a join
	Servings int      `gorm:"default:0"`
}

// MealSlot is the type for the MealSlot enum.
type MealSlot string

// MealSlot enum values.
const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// IsValidSlot checks if the MealSlot is valid.
func (e *MealPlanEntry) IsValidSlot() bool {
	switch e.Slot {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnack:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new MealPlanEntry.
func (e *MealPlanEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if !e.IsValidSlot() {
		return errors.New("invalid MealSlot provided")
	}
	if e.Day < 0 || e.Day > 6 {
		return errors.New("day must be between 0 and 6")
	}
	return nil
}

// NormalizeWeekStart truncates t to the Monday of its week at midnight UTC.
func NormalizeWeekStart(t time.Time) time.Time {
	t = t.UTC().Truncate(24 * time.Hour)
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}
