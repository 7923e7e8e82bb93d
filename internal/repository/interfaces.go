package repository

import (
	"time"

	"github.com/smartplates/smartplates-api/internal/models"
)

// UserRepo is the interface for user repository operations.
type UserRepo interface {
	GetUserByID(userID uint) (*models.User, error)
	GetUserBySubject(subject string) (*models.User, error)
	EnsureUser(user *models.User) (*models.User, error)
	UpdateUserDisplayName(userID uint, displayName string) error
	UpdateUserRole(userID uint, role models.Role) error
}

// RecipeRepo is the interface for user upload and cached recipe operations.
type RecipeRepo interface {
	CreateUserRecipe(recipe *models.UserRecipe) error
	GetUserRecipeByID(recipeID uint) (*models.UserRecipe, error)
	GetUserRecipesByCreator(userID uint) ([]models.UserRecipe, error)
	GetApprovedUserRecipes(limit int) ([]models.UserRecipe, error)
	DeleteUserRecipe(recipeID uint) error
	GetModerationQueue(limit int) ([]models.UserRecipe, error)
	SetModerationStatus(recipeID uint, status models.ModerationStatus, reviewerID uint, note string) error
	UpsertCachedRecipe(recipe *models.CachedRecipe) error
	GetCachedRecipeBySourceID(sourceID int64) (*models.CachedRecipe, error)
	GetCachedRecipes(limit int) ([]models.CachedRecipe, error)
	CountCachedRecipes() (int64, error)
}

// MealPlanRepo is the interface for meal plan repository operations.
type MealPlanRepo interface {
	GetPlanForWeek(userID uint, weekStart time.Time) (*models.MealPlan, error)
	GetOrCreatePlan(userID uint, weekStart time.Time) (*models.MealPlan, error)
	GetPlanByID(userID uint, planID uint) (*models.MealPlan, error)
	ListPlans(userID uint) ([]models.MealPlan, error)
	AddEntry(entry *models.MealPlanEntry) error
	RemoveEntry(planID uint, entryID uint) error
	DeletePlan(userID uint, planID uint) error
}

// FavoriteRepo is the interface for favorite repository operations.
type FavoriteRepo interface {
	AddFavorite(favorite *models.Favorite) error
	RemoveFavorite(userID uint, recipeID string) error
	ListFavorites(userID uint) ([]models.Favorite, error)
	IsFavorite(userID uint, recipeID string) (bool, error)
}

// ShoppingRepo is the interface for shopping list repository operations.
type ShoppingRepo interface {
	AddItems(items []models.ShoppingItem) error
	ListItems(userID uint) ([]models.ShoppingItem, error)
	SetChecked(userID uint, itemID uint, checked bool) error
	RemoveItem(userID uint, itemID uint) error
	ClearChecked(userID uint) error
}

// BackfillRepo is the interface for backfill run and quota snapshot operations.
type BackfillRepo interface {
	CreateRun(run *models.BackfillRun) error
	UpdateRun(run *models.BackfillRun) error
	GetRunByRunID(runID string) (*models.BackfillRun, error)
	ListRuns(limit int) ([]models.BackfillRun, error)
	SaveQuotaSnapshot(snapshot *models.QuotaSnapshot) error
	LatestQuotaSnapshot() (*models.QuotaSnapshot, error)
}
