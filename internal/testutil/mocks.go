package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/query"
	"github.com/smartplates/smartplates-api/internal/repository"
	"github.com/smartplates/smartplates-api/internal/spoonacular"
)

// --- MockUpstream ---

// MockUpstream is a mock implementation of service.UpstreamSource.
type MockUpstream struct {
	SearchPageFunc  func(ctx context.Context, params query.SearchParams) (*query.PageResult, error)
	FetchBatchFunc  func(ctx context.Context, limit int) ([]query.Recipe, error)
	GetRecipeFunc   func(ctx context.Context, id int64) (*spoonacular.RecipeDetail, error)
	RandomBatchFunc func(ctx context.Context, tags string, count int) ([]*spoonacular.RecipeDetail, error)
	QuotaFunc       func() spoonacular.QuotaStatus
	ExhaustedFunc   func() bool
}

func (m *MockUpstream) SearchPage(ctx context.Context, params query.SearchParams) (*query.PageResult, error) {
	if m.SearchPageFunc != nil {
		return m.SearchPageFunc(ctx, params)
	}
	return nil, fmt.Errorf("SearchPage not configured")
}

func (m *MockUpstream) FetchBatch(ctx context.Context, limit int) ([]query.Recipe, error) {
	if m.FetchBatchFunc != nil {
		return m.FetchBatchFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockUpstream) GetRecipe(ctx context.Context, id int64) (*spoonacular.RecipeDetail, error) {
	if m.GetRecipeFunc != nil {
		return m.GetRecipeFunc(ctx, id)
	}
	return nil, fmt.Errorf("GetRecipe not configured")
}

func (m *MockUpstream) RandomBatch(ctx context.Context, tags string, count int) ([]*spoonacular.RecipeDetail, error) {
	if m.RandomBatchFunc != nil {
		return m.RandomBatchFunc(ctx, tags, count)
	}
	return nil, fmt.Errorf("RandomBatch not configured")
}

func (m *MockUpstream) Quota() spoonacular.QuotaStatus {
	if m.QuotaFunc != nil {
		return m.QuotaFunc()
	}
	return spoonacular.QuotaStatus{}
}

func (m *MockUpstream) Exhausted() bool {
	if m.ExhaustedFunc != nil {
		return m.ExhaustedFunc()
	}
	return false
}

// --- MockRecipeRepo ---

// MockRecipeRepo is a mock implementation of repository.RecipeRepo.
type MockRecipeRepo struct {
	CreateUserRecipeFunc          func(recipe *models.UserRecipe) error
	GetUserRecipeByIDFunc         func(recipeID uint) (*models.UserRecipe, error)
	GetUserRecipesByCreatorFunc   func(userID uint) ([]models.UserRecipe, error)
	GetApprovedUserRecipesFunc    func(limit int) ([]models.UserRecipe, error)
	DeleteUserRecipeFunc          func(recipeID uint) error
	GetModerationQueueFunc        func(limit int) ([]models.UserRecipe, error)
	SetModerationStatusFunc       func(recipeID uint, status models.ModerationStatus, reviewerID uint, note string) error
	UpsertCachedRecipeFunc        func(recipe *models.CachedRecipe) error
	GetCachedRecipeBySourceIDFunc func(sourceID int64) (*models.CachedRecipe, error)
	GetCachedRecipesFunc          func(limit int) ([]models.CachedRecipe, error)
	CountCachedRecipesFunc        func() (int64, error)
}

func (m *MockRecipeRepo) CreateUserRecipe(recipe *models.UserRecipe) error {
	if m.CreateUserRecipeFunc != nil {
		return m.CreateUserRecipeFunc(recipe)
	}
	return nil
}

func (m *MockRecipeRepo) GetUserRecipeByID(recipeID uint) (*models.UserRecipe, error) {
	if m.GetUserRecipeByIDFunc != nil {
		return m.GetUserRecipeByIDFunc(recipeID)
	}
	return nil, repository.NewNotFoundError("Recipe not found")
}

func (m *MockRecipeRepo) GetUserRecipesByCreator(userID uint) ([]models.UserRecipe, error) {
	if m.GetUserRecipesByCreatorFunc != nil {
		return m.GetUserRecipesByCreatorFunc(userID)
	}
	return nil, nil
}

func (m *MockRecipeRepo) GetApprovedUserRecipes(limit int) ([]models.UserRecipe, error) {
	if m.GetApprovedUserRecipesFunc != nil {
		return m.GetApprovedUserRecipesFunc(limit)
	}
	return nil, nil
}

func (m *MockRecipeRepo) DeleteUserRecipe(recipeID uint) error {
	if m.DeleteUserRecipeFunc != nil {
		return m.DeleteUserRecipeFunc(recipeID)
	}
	return nil
}

func (m *MockRecipeRepo) GetModerationQueue(limit int) ([]models.UserRecipe, error) {
	if m.GetModerationQueueFunc != nil {
		return m.GetModerationQueueFunc(limit)
	}
	return nil, nil
}

func (m *MockRecipeRepo) SetModerationStatus(recipeID uint, status models.ModerationStatus, reviewerID uint, note string) error {
	if m.SetModerationStatusFunc != nil {
		return m.SetModerationStatusFunc(recipeID, status, reviewerID, note)
	}
	return nil
}

func (m *MockRecipeRepo) UpsertCachedRecipe(recipe *models.CachedRecipe) error {
	if m.UpsertCachedRecipeFunc != nil {
		return m.UpsertCachedRecipeFunc(recipe)
	}
	return nil
}

func (m *MockRecipeRepo) GetCachedRecipeBySourceID(sourceID int64) (*models.CachedRecipe, error) {
	if m.GetCachedRecipeBySourceIDFunc != nil {
		return m.GetCachedRecipeBySourceIDFunc(sourceID)
	}
	return nil, repository.NewNotFoundError("Recipe not found")
}

func (m *MockRecipeRepo) GetCachedRecipes(limit int) ([]models.CachedRecipe, error) {
	if m.GetCachedRecipesFunc != nil {
		return m.GetCachedRecipesFunc(limit)
	}
	return nil, nil
}

func (m *MockRecipeRepo) CountCachedRecipes() (int64, error) {
	if m.CountCachedRecipesFunc != nil {
		return m.CountCachedRecipesFunc()
	}
	return 0, nil
}

// --- MockUserRepo ---

// MockUserRepo is a mock implementation of repository.UserRepo.
type MockUserRepo struct {
	GetUserByIDFunc           func(userID uint) (*models.User, error)
	GetUserBySubjectFunc      func(subject string) (*models.User, error)
	EnsureUserFunc            func(user *models.User) (*models.User, error)
	UpdateUserDisplayNameFunc func(userID uint, displayName string) error
	UpdateUserRoleFunc        func(userID uint, role models.Role) error
}

func (m *MockUserRepo) GetUserByID(userID uint) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(userID)
	}
	return nil, repository.NewNotFoundError("User not found")
}

func (m *MockUserRepo) GetUserBySubject(subject string) (*models.User, error) {
	if m.GetUserBySubjectFunc != nil {
		return m.GetUserBySubjectFunc(subject)
	}
	return nil, repository.NewNotFoundError("User not found")
}

func (m *MockUserRepo) EnsureUser(user *models.User) (*models.User, error) {
	if m.EnsureUserFunc != nil {
		return m.EnsureUserFunc(user)
	}
	return user, nil
}

func (m *MockUserRepo) UpdateUserDisplayName(userID uint, displayName string) error {
	if m.UpdateUserDisplayNameFunc != nil {
		return m.UpdateUserDisplayNameFunc(userID, displayName)
	}
	return nil
}

func (m *MockUserRepo) UpdateUserRole(userID uint, role models.Role) error {
	if m.UpdateUserRoleFunc != nil {
		return m.UpdateUserRoleFunc(userID, role)
	}
	return nil
}

// --- MockMealPlanRepo ---

// MockMealPlanRepo is a mock implementation of repository.MealPlanRepo.
type MockMealPlanRepo struct {
	GetPlanForWeekFunc  func(userID uint, weekStart time.Time) (*models.MealPlan, error)
	GetOrCreatePlanFunc func(userID uint, weekStart time.Time) (*models.MealPlan, error)
	GetPlanByIDFunc     func(userID uint, planID uint) (*models.MealPlan, error)
	ListPlansFunc       func(userID uint) ([]models.MealPlan, error)
	AddEntryFunc        func(entry *models.MealPlanEntry) error
	RemoveEntryFunc     func(planID uint, entryID uint) error
	DeletePlanFunc      func(userID uint, planID uint) error
}

func (m *MockMealPlanRepo) GetPlanForWeek(userID uint, weekStart time.Time) (*models.MealPlan, error) {
	if m.GetPlanForWeekFunc != nil {
		return m.GetPlanForWeekFunc(userID, weekStart)
	}
	return nil, repository.NewNotFoundError("Meal plan not found")
}

func (m *MockMealPlanRepo) GetOrCreatePlan(userID uint, weekStart time.Time) (*models.MealPlan, error) {
	if m.GetOrCreatePlanFunc != nil {
		return m.GetOrCreatePlanFunc(userID, weekStart)
	}
	return &models.MealPlan{UserID: userID, WeekStart: weekStart}, nil
}

func (m *MockMealPlanRepo) GetPlanByID(userID uint, planID uint) (*models.MealPlan, error) {
	if m.GetPlanByIDFunc != nil {
		return m.GetPlanByIDFunc(userID, planID)
	}
	return nil, repository.NewNotFoundError("Meal plan not found")
}

func (m *MockMealPlanRepo) ListPlans(userID uint) ([]models.MealPlan, error) {
	if m.ListPlansFunc != nil {
		return m.ListPlansFunc(userID)
	}
	return nil, nil
}

func (m *MockMealPlanRepo) AddEntry(entry *models.MealPlanEntry) error {
	if m.AddEntryFunc != nil {
		return m.AddEntryFunc(entry)
	}
	return nil
}

func (m *MockMealPlanRepo) RemoveEntry(planID uint, entryID uint) error {
	if m.RemoveEntryFunc != nil {
		return m.RemoveEntryFunc(planID, entryID)
	}
	return nil
}

func (m *MockMealPlanRepo) DeletePlan(userID uint, planID uint) error {
	if m.DeletePlanFunc != nil {
		return m.DeletePlanFunc(userID, planID)
	}
	return nil
}

// --- MockFavoriteRepo ---

// MockFavoriteRepo is a mock implementation of repository.FavoriteRepo.
type MockFavoriteRepo struct {
	AddFavoriteFunc    func(favorite *models.Favorite) error
	RemoveFavoriteFunc func(userID uint, recipeID string) error
	ListFavoritesFunc  func(userID uint) ([]models.Favorite, error)
	IsFavoriteFunc     func(userID uint, recipeID string) (bool, error)
}

func (m *MockFavoriteRepo) AddFavorite(favorite *models.Favorite) error {
	if m.AddFavoriteFunc != nil {
		return m.AddFavoriteFunc(favorite)
	}
	return nil
}

func (m *MockFavoriteRepo) RemoveFavorite(userID uint, recipeID string) error {
	if m.RemoveFavoriteFunc != nil {
		return m.RemoveFavoriteFunc(userID, recipeID)
	}
	return nil
}

func (m *MockFavoriteRepo) ListFavorites(userID uint) ([]models.Favorite, error) {
	if m.ListFavoritesFunc != nil {
		return m.ListFavoritesFunc(userID)
	}
	return nil, nil
}

func (m *MockFavoriteRepo) IsFavorite(userID uint, recipeID string) (bool, error) {
	if m.IsFavoriteFunc != nil {
		return m.IsFavoriteFunc(userID, recipeID)
	}
	return false, nil
}

// --- MockShoppingRepo ---

// MockShoppingRepo is a mock implementation of repository.ShoppingRepo.
type MockShoppingRepo struct {
	AddItemsFunc     func(items []models.ShoppingItem) error
	ListItemsFunc    func(userID uint) ([]models.ShoppingItem, error)
	SetCheckedFunc   func(userID uint, itemID uint, checked bool) error
	RemoveItemFunc   func(userID uint, itemID uint) error
	ClearCheckedFunc func(userID uint) error
}

func (m *MockShoppingRepo) AddItems(items []models.ShoppingItem) error {
	if m.AddItemsFunc != nil {
		return m.AddItemsFunc(items)
	}
	return nil
}

func (m *MockShoppingRepo) ListItems(userID uint) ([]models.ShoppingItem, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(userID)
	}
	return nil, nil
}

func (m *MockShoppingRepo) SetChecked(userID uint, itemID uint, checked bool) error {
	if m.SetCheckedFunc != nil {
		return m.SetCheckedFunc(userID, itemID, checked)
	}
	return nil
}

func (m *MockShoppingRepo) RemoveItem(userID uint, itemID uint) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(userID, itemID)
	}
	return nil
}

func (m *MockShoppingRepo) ClearChecked(userID uint) error {
	if m.ClearCheckedFunc != nil {
		return m.ClearCheckedFunc(userID)
	}
	return nil
}

// --- MockBackfillRepo ---

// MockBackfillRepo is a mock implementation of repository.BackfillRepo.
type MockBackfillRepo struct {
	CreateRunFunc           func(run *models.BackfillRun) error
	UpdateRunFunc           func(run *models.BackfillRun) error
	GetRunByRunIDFunc       func(runID string) (*models.BackfillRun, error)
	ListRunsFunc            func(limit int) ([]models.BackfillRun, error)
	SaveQuotaSnapshotFunc   func(snapshot *models.QuotaSnapshot) error
	LatestQuotaSnapshotFunc func() (*models.QuotaSnapshot, error)
}

func (m *MockBackfillRepo) CreateRun(run *models.BackfillRun) error {
	if m.CreateRunFunc != nil {
		return m.CreateRunFunc(run)
	}
	return nil
}

func (m *MockBackfillRepo) UpdateRun(run *models.BackfillRun) error {
	if m.UpdateRunFunc != nil {
		return m.UpdateRunFunc(run)
	}
	return nil
}

func (m *MockBackfillRepo) GetRunByRunID(runID string) (*models.BackfillRun, error) {
	if m.GetRunByRunIDFunc != nil {
		return m.GetRunByRunIDFunc(runID)
	}
	return nil, repository.NewNotFoundError("Backfill run not found")
}

func (m *MockBackfillRepo) ListRuns(limit int) ([]models.BackfillRun, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(limit)
	}
	return nil, nil
}

func (m *MockBackfillRepo) SaveQuotaSnapshot(snapshot *models.QuotaSnapshot) error {
	if m.SaveQuotaSnapshotFunc != nil {
		return m.SaveQuotaSnapshotFunc(snapshot)
	}
	return nil
}

func (m *MockBackfillRepo) LatestQuotaSnapshot() (*models.QuotaSnapshot, error) {
	if m.LatestQuotaSnapshotFunc != nil {
		return m.LatestQuotaSnapshotFunc()
	}
	return nil, repository.NewNotFoundError("No quota snapshot recorded")
}

var _ repository.RecipeRepo = (*MockRecipeRepo)(nil)
var _ repository.UserRepo = (*MockUserRepo)(nil)
var _ repository.MealPlanRepo = (*MockMealPlanRepo)(nil)
var _ repository.FavoriteRepo = (*MockFavoriteRepo)(nil)
var _ repository.ShoppingRepo = (*MockShoppingRepo)(nil)
var _ repository.BackfillRepo = (*MockBackfillRepo)(nil)
