package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/repository"
)

// ShoppingService is the business logic layer for shopping lists.
type ShoppingService struct {
	Repo    repository.ShoppingRepo
	Recipes *RecipeService
}

// NewShoppingService is the constructor function for initializing a new ShoppingService.
func NewShoppingService(repo repository.ShoppingRepo, recipes *RecipeService) *ShoppingService {
	return &ShoppingService{Repo: repo, Recipes: recipes}
}

// AddItemRequest is the payload for adding one free-form item.
type AddItemRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// AddItem adds one item to the user's list.
func (s *ShoppingService) AddItem(userID uint, req *AddItemRequest) error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	return s.Repo.AddItems([]models.ShoppingItem{{
		UserID: userID,
		Name:   req.Name,
		Amount: req.Amount,
	}})
}

// AddFromRecipe resolves a recipe and adds its ingredient lines to the
// user's list, each carrying the recipe as provenance.
func (s *ShoppingService) AddFromRecipe(ctx context.Context, userID uint, recipeID string) (int, error) {
	detail, err := s.Recipes.GetRecipeDetail(ctx, recipeID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve recipe: %w", err)
	}

	items := make([]models.ShoppingItem, 0, len(detail.Ingredients))
	for _, line := range detail.Ingredients {
		if line == "" {
			continue
		}
		items = append(items, models.ShoppingItem{
			UserID:   userID,
			Name:     line,
			RecipeID: detail.ID,
		})
	}
	if len(items) == 0 {
		return 0, errors.New("recipe has no ingredients")
	}

	if err := s.Repo.AddItems(items); err != nil {
		return 0, fmt.Errorf("failed to add items: %w", err)
	}
	return len(items), nil
}

// List returns the user's list, unchecked items first.
func (s *ShoppingService) List(userID uint) ([]models.ShoppingItem, error) {
	return s.Repo.ListItems(userID)
}

// SetChecked marks an item checked or unchecked.
func (s *ShoppingService) SetChecked(userID uint, itemID uint, checked bool) error {
	return s.Repo.SetChecked(userID, itemID, checked)
}

// RemoveItem deletes one item.
func (s *ShoppingService) RemoveItem(userID uint, itemID uint) error {
	return s.Repo.RemoveItem(userID, itemID)
}

// ClearChecked removes all checked items.
func (s *ShoppingService) ClearChecked(userID uint) error {
	return s.Repo.ClearChecked(userID)
}
