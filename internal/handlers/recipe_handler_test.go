package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smartplates/smartplates-api/internal/config"
	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/query"
	"github.com/smartplates/smartplates-api/internal/service"
	"github.com/smartplates/smartplates-api/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setUser is a test middleware that injects a user into the gin context.
func setUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("authenticated", true)
		}
		c.Next()
	}
}

func newRecipeService(repo *testutil.MockRecipeRepo, upstream *testutil.MockUpstream) *service.RecipeService {
	return service.NewRecipeService(&config.Config{}, repo, upstream, query.DefaultTables(), query.DefaultPolicy())
}

func TestSearchRecipes_RemoteMode(t *testing.T) {
	upstream := &testutil.MockUpstream{
		SearchPageFunc: func(ctx context.Context, params query.SearchParams) (*query.PageResult, error) {
			if params.MealType != "dinner" {
				t.Errorf("MealType = %q, want dinner", params.MealType)
			}
			items := []query.Recipe{
				testutil.TestQueryRecipe(1, "Roast Chicken"),
				testutil.TestQueryRecipe(2, "Beef Stew"),
			}
			return &query.PageResult{Items: items, Total: 40}, nil
		},
	}
	handler := NewRecipeHandler(newRecipeService(&testutil.MockRecipeRepo{}, upstream))

	r := gin.New()
	r.GET("/recipes", handler.SearchRecipes)

	req := httptest.NewRequest("GET", "/recipes?category=dinner&page=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result query.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(result.Items) != 2 {
		t.Errorf("items = %d, want 2", len(result.Items))
	}
	// 40 results at the anonymous page size of 15.
	if result.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", result.TotalPages)
	}
}

func TestSearchRecipes_InvalidDifficulty(t *testing.T) {
	handler := NewRecipeHandler(newRecipeService(&testutil.MockRecipeRepo{}, &testutil.MockUpstream{}))

	r := gin.New()
	r.GET("/recipes", handler.SearchRecipes)

	req := httptest.NewRequest("GET", "/recipes?difficulty=impossible", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSearchRecipes_UpstreamFailure(t *testing.T) {
	upstream := &testutil.MockUpstream{
		SearchPageFunc: func(ctx context.Context, params query.SearchParams) (*query.PageResult, error) {
			return nil, query.UpstreamError{Status: http.StatusPaymentRequired}
		},
	}
	handler := NewRecipeHandler(newRecipeService(&testutil.MockRecipeRepo{}, upstream))

	r := gin.New()
	r.GET("/recipes", handler.SearchRecipes)

	req := httptest.NewRequest("GET", "/recipes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
}

func TestGetRecipe_NotFound(t *testing.T) {
	handler := NewRecipeHandler(newRecipeService(&testutil.MockRecipeRepo{}, &testutil.MockUpstream{
		GetRecipeFunc: nil, // not configured, returns error
	}))

	r := gin.New()
	r.GET("/recipes/:recipe_id", handler.GetRecipe)

	req := httptest.NewRequest("GET", "/recipes/not-an-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetRecipe_CachedRecipe(t *testing.T) {
	repo := &testutil.MockRecipeRepo{
		GetCachedRecipeBySourceIDFunc: func(sourceID int64) (*models.CachedRecipe, error) {
			return &models.CachedRecipe{
				SourceID:     sourceID,
				Title:        "Cached Curry",
				ReadyMinutes: 10,
			}, nil
		},
	}
	handler := NewRecipeHandler(newRecipeService(repo, &testutil.MockUpstream{}))

	r := gin.New()
	r.GET("/recipes/:recipe_id", handler.GetRecipe)

	req := httptest.NewRequest("GET", "/recipes/123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["title"] != "Cached Curry" {
		t.Errorf("title = %v, want 'Cached Curry'", body["title"])
	}
	if body["difficulty"] != "easy" {
		t.Errorf("difficulty = %v, want easy for 10 minutes", body["difficulty"])
	}
}

func TestUploadRecipe_RequiresUser(t *testing.T) {
	handler := NewRecipeHandler(newRecipeService(&testutil.MockRecipeRepo{}, &testutil.MockUpstream{}))

	r := gin.New()
	r.POST("/recipes", handler.UploadRecipe)

	req := httptest.NewRequest("POST", "/recipes", strings.NewReader(`{"title":"X"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUploadRecipe_Valid(t *testing.T) {
	repo := &testutil.MockRecipeRepo{
		CreateUserRecipeFunc: func(recipe *models.UserRecipe) error {
			recipe.ID = 9
			return nil
		},
	}
	handler := NewRecipeHandler(newRecipeService(repo, &testutil.MockUpstream{}))

	r := gin.New()
	r.POST("/recipes", setUser(testutil.TestUser()), handler.UploadRecipe)

	body := `{"title":"Weeknight Stir Fry","ingredients":["1 lb chicken"],"readyMinutes":25}`
	req := httptest.NewRequest("POST", "/recipes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d. body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var created models.UserRecipe
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.Status != models.ModerationPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
}

func TestUploadRecipe_ValidationError(t *testing.T) {
	handler := NewRecipeHandler(newRecipeService(&testutil.MockRecipeRepo{}, &testutil.MockUpstream{}))

	r := gin.New()
	r.POST("/recipes", setUser(testutil.TestUser()), handler.UploadRecipe)

	req := httptest.NewRequest("POST", "/recipes", strings.NewReader(`{"title":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
