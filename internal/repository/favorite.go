package repository

import (
	"errors"

	"github.com/smartplates/smartplates-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository is a repository for interacting with favorites.
type FavoriteRepository struct {
	DB *gorm.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

// AddFavorite saves a recipe for a user. Saving an already saved recipe is
// a no-op.
func (r *FavoriteRepository) AddFavorite(favorite *models.Favorite) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(favorite).Error
}

// RemoveFavorite removes a saved recipe.
func (r *FavoriteRepository) RemoveFavorite(userID uint, recipeID string) error {
	result := r.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Favorite not found"}
	}
	return nil
}

// ListFavorites retrieves a user's saved recipes, newest first.
func (r *FavoriteRepository) ListFavorites(userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// IsFavorite reports whether the user has saved the recipe.
func (r *FavoriteRepository) IsFavorite(userID uint, recipeID string) (bool, error) {
	var favorite models.Favorite
	err := r.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
