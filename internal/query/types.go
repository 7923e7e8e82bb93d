// Package query implements the recipe query engine: it decides per request
// whether narrowing happens upstream (facet dropdowns) or in memory (free-text
// search), derives the difficulty facet from ready time, filters candidates,
// and assembles a page of de-duplicated results.
package query

import (
	"context"
	"strconv"
)

// Mode identifies how a query obtains and narrows its candidates.
type Mode string

// Mode enum values.
const (
	// ModeRemotePaginated forwards facet filters and the page cursor to the
	// upstream source, which performs narrowing and pagination itself.
	ModeRemotePaginated Mode = "remote-paginated"
	// ModeLocalFiltered fetches one bounded batch and performs all narrowing
	// and pagination in memory.
	ModeLocalFiltered Mode = "local-filtered"
)

// Difficulty is a derived three-level classification computed from a recipe's
// ready time. It is never stored on a recipe.
type Difficulty string

// Difficulty enum values.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is one of the known difficulty levels.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Recipe is the engine's read-only view of a recipe, regardless of whether it
// originated locally or upstream. Timing fields are minutes; zero means the
// source did not carry that field.
type Recipe struct {
	LocalID        string   `json:"localId,omitempty"`
	SourceID       int64    `json:"sourceId,omitempty"`
	Title          string   `json:"title"`
	ImageURL       string   `json:"image,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	ReadyInMinutes int      `json:"readyInMinutes,omitempty"`
	CookingMinutes int      `json:"cookingMinutes,omitempty"`
	TotalMinutes   int      `json:"totalMinutes,omitempty"`
	PrepMinutes    int      `json:"prepMinutes,omitempty"`
	CookMinutes    int      `json:"cookMinutes,omitempty"`
	Diets          []string `json:"diets,omitempty"`
	DishTypes      []string `json:"dishTypes,omitempty"`
	Servings       int      `json:"servings,omitempty"`
}

// Key returns the identity used for de-duplication. Precedence: local
// identifier, then re-stringified upstream identifier, then title. The title
// fallback is unsound if two distinct recipes share a title, but some records
// carry no identifier at all.
func (r Recipe) Key() string {
	if r.LocalID != "" {
		return r.LocalID
	}
	if r.SourceID != 0 {
		return strconv.FormatInt(r.SourceID, 10)
	}
	return r.Title
}

// ID returns the public identifier for the recipe, following the same
// precedence as Key.
func (r Recipe) ID() string {
	return r.Key()
}

// Request describes one query as issued by a UI interaction. It is
// constructed fresh per interaction and never persisted.
type Request struct {
	SearchText      string     `json:"searchText"`
	Category        string     `json:"category"`
	Diet            string     `json:"diet"`
	Intolerance     string     `json:"intolerance"`
	Difficulty      Difficulty `json:"difficulty"`
	Page            int        `json:"page"`
	PageSize        int        `json:"pageSize"`
	IsAuthenticated bool       `json:"-"`
}

// Result is one page of query output. Items never contains two entries with
// the same identity key.
type Result struct {
	Items      []Recipe `json:"items"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	HasMore    bool     `json:"hasMore"`
	// PromptRegister is set for anonymous requests that have scrolled past
	// the configured teaser threshold while more results remain.
	PromptRegister bool `json:"promptRegister,omitempty"`
}

// SearchParams are the upstream-translated facet parameters used in
// remote-paginated mode.
type SearchParams struct {
	Query           string
	MealType        string
	Diet            string
	Intolerances    string
	MaxReadyMinutes int // 0 means no upper bound
	Page            int
	PageSize        int
}

// PageResult is one upstream page plus the upstream total count.
type PageResult struct {
	Items []Recipe
	Total int
}

// Source supplies recipe candidates. SearchPage delegates narrowing and
// pagination upstream; FetchBatch returns a bounded unfiltered candidate pool
// for in-memory narrowing.
type Source interface {
	SearchPage(ctx context.Context, params SearchParams) (*PageResult, error)
	FetchBatch(ctx context.Context, limit int) ([]Recipe, error)
}

// Policy holds the product knobs for access-tier behavior. These are policy,
// not correctness invariants, so they are configuration rather than constants.
type Policy struct {
	AuthenticatedPageSize int `yaml:"authenticated_page_size"`
	AnonymousPageSize     int `yaml:"anonymous_page_size"`
	// AnonymousVisibleLimit is the number of results an anonymous user can
	// page through before further results become a registration prompt.
	AnonymousVisibleLimit int `yaml:"anonymous_visible_limit"`
	// BatchLimit bounds the candidate pool fetched in local-filtered mode.
	BatchLimit int `yaml:"batch_limit"`
}

// DefaultPolicy returns the policy used when no configuration overrides it.
func DefaultPolicy() Policy {
	return Policy{
		AuthenticatedPageSize: 30,
		AnonymousPageSize:     15,
		AnonymousVisibleLimit: 30,
		BatchLimit:            100,
	}
}

// Tables holds the synonym and keyword tables driving facet matching. The
// tables are data, loaded from configuration, so deployments can tune them
// without a code change.
type Tables struct {
	// CategorySynonyms maps a category to dish-type fragments that count as a
	// match, e.g. "lunch" also matches "main course".
	CategorySynonyms map[string][]string `yaml:"category_synonyms"`
	// DietKeywords maps a diet to keywords searched in diet tags and, as a
	// fallback for inconsistently tagged records, in the free-text summary.
	DietKeywords map[string][]string `yaml:"diet_keywords"`
	// AllergenKeywords maps an intolerance to keywords whose presence in a
	// recipe's free text excludes it. Best-effort only; absence of a keyword
	// is treated as safe, which is a heuristic and not a guarantee.
	AllergenKeywords map[string][]string `yaml:"allergen_keywords"`
}

// DefaultTables returns the built-in facet tables, used when no facets file
// is configured.
func DefaultTables() Tables {
	return Tables{
		CategorySynonyms: map[string][]string{
			"breakfast": {"breakfast", "morning meal", "brunch"},
			"lunch":     {"lunch", "main course", "salad"},
			"dinner":    {"dinner", "main course", "main dish"},
			"dessert":   {"dessert", "sweet"},
			"snack":     {"snack", "appetizer", "side dish", "fingerfood"},
		},
		DietKeywords: map[string][]string{
			"vegetarian":  {"vegetarian"},
			"vegan":       {"vegan", "plant-based"},
			"gluten free": {"gluten free", "gluten-free"},
			"keto":        {"keto", "ketogenic"},
			"paleo":       {"paleo"},
		},
		AllergenKeywords: map[string][]string{
			"gluten":    {"gluten", "wheat", "barley", "rye"},
			"dairy":     {"milk", "cheese", "butter", "cream", "yogurt"},
			"peanut":    {"peanut"},
			"tree nut":  {"almond", "walnut", "cashew", "pecan", "hazelnut"},
			"egg":       {"egg"},
			"soy":       {"soy", "tofu", "edamame"},
			"shellfish": {"shellfish", "shrimp", "crab", "lobster"},
		},
	}
}
