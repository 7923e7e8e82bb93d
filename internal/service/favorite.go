package service

import (
	"errors"

	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/repository"
)

// FavoriteService is the business logic layer for saved recipes.
type FavoriteService struct {
	Repo repository.FavoriteRepo
}

// NewFavoriteService is the constructor function for initializing a new FavoriteService.
func NewFavoriteService(repo repository.FavoriteRepo) *FavoriteService {
	return &FavoriteService{Repo: repo}
}

// SaveRequest is the payload for saving a recipe.
type SaveRequest struct {
	RecipeID string `json:"recipeId"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// Save adds a recipe to the user's favorites. Saving twice is a no-op.
func (s *FavoriteService) Save(userID uint, req *SaveRequest) error {
	if req.RecipeID == "" {
		return errors.New("recipeId is required")
	}
	if req.Title == "" {
		return errors.New("title is required")
	}
	return s.Repo.AddFavorite(&models.Favorite{
		UserID:   userID,
		RecipeID: req.RecipeID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
	})
}

// Unsave removes a recipe from the user's favorites.
func (s *FavoriteService) Unsave(userID uint, recipeID string) error {
	return s.Repo.RemoveFavorite(userID, recipeID)
}

// List returns the user's favorites, newest first.
func (s *FavoriteService) List(userID uint) ([]models.Favorite, error) {
	return s.Repo.ListFavorites(userID)
}

// IsFavorite reports whether the user has saved the recipe.
func (s *FavoriteService) IsFavorite(userID uint, recipeID string) (bool, error) {
	return s.Repo.IsFavorite(userID, recipeID)
}
