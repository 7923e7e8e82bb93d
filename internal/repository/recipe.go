package repository

import (
	"errors"

	"github.com/smartplates/smartplates-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository is a repository for interacting with user uploads and
// cached upstream recipes.
type RecipeRepository struct {
	DB *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

// CreateUserRecipe creates a new user upload.
func (r *RecipeRepository) CreateUserRecipe(recipe *models.UserRecipe) error {
	return r.DB.Create(recipe).Error
}

// GetUserRecipeByID retrieves a user upload by its ID.
func (r *RecipeRepository) GetUserRecipeByID(recipeID uint) (*models.UserRecipe, error) {
	var recipe models.UserRecipe
	err := r.DB.Preload("CreatedBy", func(db *gorm.DB) *gorm.DB {
		return db.Select("ID", "DisplayName")
	}).First(&recipe, recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Recipe not found"}
		}
		return nil, err
	}
	return &recipe, nil
}

// GetUserRecipesByCreator retrieves all uploads by one user, newest first.
func (r *RecipeRepository) GetUserRecipesByCreator(userID uint) ([]models.UserRecipe, error) {
	var recipes []models.UserRecipe
	err := r.DB.Where("created_by_id = ?", userID).
		Order("created_at DESC").Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetApprovedUserRecipes retrieves approved uploads, newest first.
func (r *RecipeRepository) GetApprovedUserRecipes(limit int) ([]models.UserRecipe, error) {
	var recipes []models.UserRecipe
	err := r.DB.Where("status = ?", models.ModerationApproved).
		Order("created_at DESC").Limit(limit).Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// DeleteUserRecipe deletes a user upload.
func (r *RecipeRepository) DeleteUserRecipe(recipeID uint) error {
	return r.DB.Delete(&models.UserRecipe{}, recipeID).Error
}

// GetModerationQueue retrieves pending uploads, flagged ones first, oldest
// within each group so nothing starves.
func (r *RecipeRepository) GetModerationQueue(limit int) ([]models.UserRecipe, error) {
	var recipes []models.UserRecipe
	err := r.DB.Where("status = ?", models.ModerationPending).
		Order("flagged DESC, created_at ASC").Limit(limit).Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SetModerationStatus records a moderation decision on an upload.
func (r *RecipeRepository) SetModerationStatus(recipeID uint, status models.ModerationStatus, reviewerID uint, note string) error {
	result := r.DB.Model(&models.UserRecipe{}).Where("id = ?", recipeID).
		Updates(map[string]interface{}{
			"status":         status,
			"reviewed_by_id": reviewerID,
			"review_note":    note,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Recipe not found"}
	}
	return nil
}

// UpsertCachedRecipe inserts or refreshes a cached upstream recipe by its
// source ID.
func (r *RecipeRepository) UpsertCachedRecipe(recipe *models.CachedRecipe) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "summary", "image_url", "source_url", "ingredients",
			"diets", "dish_types", "ready_minutes", "cook_minutes", "servings",
		}),
	}).Create(recipe).Error
}

// GetCachedRecipeBySourceID retrieves a cached recipe by its upstream ID.
func (r *RecipeRepository) GetCachedRecipeBySourceID(sourceID int64) (*models.CachedRecipe, error) {
	var recipe models.CachedRecipe
	if err := r.DB.Where("source_id = ?", sourceID).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Recipe not found"}
		}
		return nil, err
	}
	return &recipe, nil
}

// GetCachedRecipes retrieves cached recipes, newest imports first.
func (r *RecipeRepository) GetCachedRecipes(limit int) ([]models.CachedRecipe, error) {
	var recipes []models.CachedRecipe
	err := r.DB.Order("updated_at DESC").Limit(limit).Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountCachedRecipes returns the number of cached upstream recipes.
func (r *RecipeRepository) CountCachedRecipes() (int64, error) {
	var count int64
	if err := r.DB.Model(&models.CachedRecipe{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
