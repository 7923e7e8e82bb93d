package repository

import (
	"errors"
	"time"

	"github.com/smartplates/smartplates-api/internal/models"
	"gorm.io/gorm"
)

// MealPlanRepository is a repository for interacting with meal plans.
type MealPlanRepository struct {
	DB *gorm.DB
}

// NewMealPlanRepository creates a new MealPlanRepository.
func NewMealPlanRepository(db *gorm.DB) *MealPlanRepository {
	return &MealPlanRepository{DB: db}
}

// GetPlanForWeek retrieves one user's plan for the given week, with entries
// ordered by day then slot.
func (r *MealPlanRepository) GetPlanForWeek(userID uint, weekStart time.Time) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := r.DB.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("day ASC, slot ASC")
	}).Where("user_id = ? AND week_start = ?", userID, models.NormalizeWeekStart(weekStart)).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Meal plan not found"}
		}
		return nil, err
	}
	return &plan, nil
}

// GetOrCreatePlan retrieves the plan for the week, creating an empty one if
// none exists yet.
func (r *MealPlanRepository) GetOrCreatePlan(userID uint, weekStart time.Time) (*models.MealPlan, error) {
	plan, err := r.GetPlanForWeek(userID, weekStart)
	if err == nil {
		return plan, nil
	}
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	created := &models.MealPlan{
		UserID:    userID,
		WeekStart: models.NormalizeWeekStart(weekStart),
	}
	if err := r.DB.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// GetPlanByID retrieves a plan by ID, scoped to the owning user.
func (r *MealPlanRepository) GetPlanByID(userID uint, planID uint) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := r.DB.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("day ASC, slot ASC")
	}).Where("user_id = ?", userID).First(&plan, planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Meal plan not found"}
		}
		return nil, err
	}
	return &plan, nil
}

// ListPlans retrieves all of a user's plans, most recent week first.
func (r *MealPlanRepository) ListPlans(userID uint) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	err := r.DB.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("day ASC, slot ASC")
	}).Where("user_id = ?", userID).Order("week_start DESC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// AddEntry adds a planned meal to a plan.
func (r *MealPlanRepository) AddEntry(entry *models.MealPlanEntry) error {
	return r.DB.Create(entry).Error
}

// RemoveEntry removes one planned meal from a plan.
func (r *MealPlanRepository) RemoveEntry(planID uint, entryID uint) error {
	result := r.DB.Where("plan_id = ?", planID).Delete(&models.MealPlanEntry{}, entryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Meal plan entry not found"}
	}
	return nil
}

// DeletePlan deletes a plan and its entries, scoped to the owning user.
func (r *MealPlanRepository) DeletePlan(userID uint, planID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&models.MealPlan{}, planID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NotFoundError{message: "Meal plan not found"}
		}
		return tx.Where("plan_id = ?", planID).Delete(&models.MealPlanEntry{}).Error
	})
}
