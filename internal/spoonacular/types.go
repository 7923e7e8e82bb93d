// Package spoonacular is the client for the upstream recipe source. It
// translates facet parameters into API query parameters, tracks API-quota
// usage from response headers, and latches when the daily quota is exhausted.
package spoonacular

import "github.com/smartplates/smartplates-api/internal/query"

type searchResponse struct {
	Results      []apiRecipe `json:"results"`
	Offset       int         `json:"offset"`
	Number       int         `json:"number"`
	TotalResults int         `json:"totalResults"`
}

type apiRecipe struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Image           string   `json:"image"`
	Summary         string   `json:"summary"`
	ReadyInMinutes  int      `json:"readyInMinutes"`
	CookingMinutes  int      `json:"cookingMinutes"`
	PreparationTime int      `json:"preparationMinutes"`
	Servings        int      `json:"servings"`
	Diets           []string `json:"diets"`
	DishTypes       []string `json:"dishTypes"`
	SourceURL       string   `json:"sourceUrl"`
	ExtendedIngredients []apiIngredient `json:"extendedIngredients"`
}

type apiIngredient struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Original string  `json:"original"`
}

type randomResponse struct {
	Recipes []apiRecipe `json:"recipes"`
}

type apiErrorBody struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toQueryRecipe maps an upstream record into the engine's view.
func (r apiRecipe) toQueryRecipe() query.Recipe {
	return query.Recipe{
		SourceID:       r.ID,
		Title:          r.Title,
		ImageURL:       r.Image,
		Summary:        r.Summary,
		ReadyInMinutes: r.ReadyInMinutes,
		CookingMinutes: r.CookingMinutes,
		PrepMinutes:    r.PreparationTime,
		Servings:       r.Servings,
		Diets:          r.Diets,
		DishTypes:      r.DishTypes,
	}
}

// RecipeDetail is the full upstream record for the detail view, including
// ingredients, which the list view omits.
type RecipeDetail struct {
	query.Recipe
	SourceURL   string       `json:"sourceUrl,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Ingredient is one ingredient line of an upstream recipe.
type Ingredient struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	OriginalText string  `json:"originalText"`
}

func (r apiRecipe) toDetail() *RecipeDetail {
	ingredients := make([]Ingredient, 0, len(r.ExtendedIngredients))
	for _, ing := range r.ExtendedIngredients {
		ingredients = append(ingredients, Ingredient{
			Name:         ing.Name,
			Amount:       ing.Amount,
			Unit:         ing.Unit,
			OriginalText: ing.Original,
		})
	}
	return &RecipeDetail{
		Recipe:      r.toQueryRecipe(),
		SourceURL:   r.SourceURL,
		Ingredients: ingredients,
	}
}
