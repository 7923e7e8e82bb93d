package testutil

import (
	"github.com/lib/pq"
	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/query"
	"github.com/smartplates/smartplates-api/internal/spoonacular"
	"gorm.io/gorm"
)

// TestUser creates a test user.
func TestUser() *models.User {
	return &models.User{
		Model:       gorm.Model{ID: 1},
		Subject:     "auth0|testuser",
		DisplayName: "Test User",
		Email:       "test@example.com",
		Role:        models.RoleMember,
	}
}

// TestAdmin creates a test user with the admin role.
func TestAdmin() *models.User {
	return &models.User{
		Model:       gorm.Model{ID: 2},
		Subject:     "auth0|testadmin",
		DisplayName: "Test Admin",
		Email:       "admin@example.com",
		Role:        models.RoleAdmin,
	}
}

// TestQueryRecipe creates an upstream-shaped recipe for engine tests.
func TestQueryRecipe(id int64, title string) query.Recipe {
	return query.Recipe{
		SourceID:       id,
		Title:          title,
		ImageURL:       "https://img.example.com/recipe.jpg",
		Summary:        "A quick weeknight dish.",
		ReadyInMinutes: 25,
		DishTypes:      []string{"main course"},
		Servings:       4,
	}
}

// TestUserRecipe creates an approved community upload.
func TestUserRecipe(id uint, title string) models.UserRecipe {
	return models.UserRecipe{
		Model:        gorm.Model{ID: id},
		Title:        title,
		Summary:      "A family favorite.",
		Ingredients:  pq.StringArray{"2 cups flour", "1 egg", "1 cup milk"},
		Instructions: pq.StringArray{"Mix everything", "Bake for 30 minutes"},
		ReadyMinutes: 40,
		Servings:     4,
		CreatedByID:  1,
		Status:       models.ModerationApproved,
	}
}

// TestRecipeDetail creates a full upstream record for detail tests.
func TestRecipeDetail(id int64, title string) *spoonacular.RecipeDetail {
	return &spoonacular.RecipeDetail{
		Recipe: query.Recipe{
			SourceID:       id,
			Title:          title,
			Summary:        "A quick weeknight dish.",
			ImageURL:       "https://img.example.com/recipe.jpg",
			ReadyInMinutes: 25,
			Diets:          []string{"vegetarian"},
			DishTypes:      []string{"main course"},
			Servings:       4,
		},
		SourceURL: "https://example.com/recipe",
		Ingredients: []spoonacular.Ingredient{
			{Name: "flour", Amount: 2, Unit: "cups", OriginalText: "2 cups flour"},
			{Name: "egg", Amount: 1, Unit: "", OriginalText: "1 egg"},
		},
	}
}
