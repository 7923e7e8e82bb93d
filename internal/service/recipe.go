package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/asaskevich/govalidator"
	"github.com/smartplates/smartplates-api/internal/config"
	"github.com/smartplates/smartplates-api/internal/logger"
	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/query"
	"github.com/smartplates/smartplates-api/internal/repository"
	"github.com/smartplates/smartplates-api/internal/spoonacular"
	"go.uber.org/zap"
)

// localIDPrefix distinguishes upload identifiers from re-stringified
// upstream identifiers in the unified ID space.
const localIDPrefix = "u"

var profanityDetector = goaway.NewProfanityDetector().
	WithSanitizeLeetSpeak(true).
	WithSanitizeSpecialCharacters(true).
	WithSanitizeAccents(false)

// UpstreamSource is the slice of the upstream recipe API the services need.
// *spoonacular.Client satisfies it; tests substitute a mock.
type UpstreamSource interface {
	SearchPage(ctx context.Context, params query.SearchParams) (*query.PageResult, error)
	FetchBatch(ctx context.Context, limit int) ([]query.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*spoonacular.RecipeDetail, error)
	RandomBatch(ctx context.Context, tags string, count int) ([]*spoonacular.RecipeDetail, error)
	Quota() spoonacular.QuotaStatus
	Exhausted() bool
}

var _ UpstreamSource = (*spoonacular.Client)(nil)

// RecipeService is the business logic layer for recipe discovery, detail
// lookup, and user uploads.
type RecipeService struct {
	Cfg      *config.Config
	Repo     repository.RecipeRepo
	Upstream UpstreamSource
	engine   *query.Engine
}

// NewRecipeService is the constructor function for initializing a new RecipeService.
func NewRecipeService(cfg *config.Config, repo repository.RecipeRepo, upstream UpstreamSource, tables query.Tables, policy query.Policy) *RecipeService {
	s := &RecipeService{
		Cfg:      cfg,
		Repo:     repo,
		Upstream: upstream,
	}
	s.engine = query.NewEngine(&mergedSource{repo: repo, upstream: upstream}, tables, policy)
	return s
}

// Query runs one discovery query through the engine.
func (s *RecipeService) Query(ctx context.Context, req query.Request) (*query.Result, error) {
	return s.engine.Execute(ctx, req)
}

// mergedSource implements query.Source over the local cache plus the
// upstream API. Facet narrowing stays upstream; the in-memory candidate
// pool is seeded with local records first so cached and community recipes
// win de-duplication against upstream copies.
type mergedSource struct {
	repo     repository.RecipeRepo
	upstream UpstreamSource
}

func (m *mergedSource) SearchPage(ctx context.Context, params query.SearchParams) (*query.PageResult, error) {
	return m.upstream.SearchPage(ctx, params)
}

func (m *mergedSource) FetchBatch(ctx context.Context, limit int) ([]query.Recipe, error) {
	candidates := make([]query.Recipe, 0, limit)

	approved, err := m.repo.GetApprovedUserRecipes(limit)
	if err != nil {
		logger.Get().Warn("failed to load community recipes for search", zap.Error(err))
	}
	for _, r := range approved {
		candidates = append(candidates, uploadToQueryRecipe(&r))
	}

	cached, err := m.repo.GetCachedRecipes(limit - len(candidates))
	if err != nil {
		logger.Get().Warn("failed to load cached recipes for search", zap.Error(err))
	}
	for _, r := range cached {
		candidates = append(candidates, cachedToQueryRecipe(&r))
	}

	if len(candidates) < limit {
		remote, err := m.upstream.FetchBatch(ctx, limit-len(candidates))
		if err != nil {
			// Local candidates still make a usable pool; only fail the
			// query when there is nothing at all to search.
			if len(candidates) == 0 {
				return nil, err
			}
			logger.Get().Warn("upstream batch fetch failed, searching local pool only", zap.Error(err))
		}
		candidates = append(candidates, remote...)
	}

	return candidates, nil
}

func uploadToQueryRecipe(r *models.UserRecipe) query.Recipe {
	return query.Recipe{
		LocalID:        localIDPrefix + strconv.FormatUint(uint64(r.ID), 10),
		Title:          r.Title,
		ImageURL:       r.ImageURL,
		Summary:        r.Summary,
		ReadyInMinutes: r.ReadyMinutes,
		PrepMinutes:    r.PrepMinutes,
		CookMinutes:    r.CookMinutes,
		Diets:          r.Diets,
		DishTypes:      r.DishTypes,
		Servings:       r.Servings,
	}
}

func cachedToQueryRecipe(r *models.CachedRecipe) query.Recipe {
	return query.Recipe{
		SourceID:       r.SourceID,
		Title:          r.Title,
		ImageURL:       r.ImageURL,
		Summary:        r.Summary,
		ReadyInMinutes: r.ReadyMinutes,
		CookingMinutes: r.CookMinutes,
		Diets:          r.Diets,
		DishTypes:      r.DishTypes,
		Servings:       r.Servings,
	}
}

// RecipeDetailResponse is the unified detail view for local uploads, cached
// imports, and live upstream records.
type RecipeDetailResponse struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Summary      string           `json:"summary,omitempty"`
	ImageURL     string           `json:"imageUrl,omitempty"`
	SourceURL    string           `json:"sourceUrl,omitempty"`
	Ingredients  []string         `json:"ingredients"`
	Instructions []string         `json:"instructions,omitempty"`
	ReadyMinutes int              `json:"readyMinutes"`
	Servings     int              `json:"servings,omitempty"`
	Diets        []string         `json:"diets,omitempty"`
	DishTypes    []string         `json:"dishTypes,omitempty"`
	Difficulty   query.Difficulty `json:"difficulty"`
	Community    bool             `json:"community"`
}

// GetRecipeDetail resolves a unified recipe ID. Upload IDs hit the local
// table; numeric IDs try the cache first and fall back to the upstream API.
func (s *RecipeService) GetRecipeDetail(ctx context.Context, id string) (*RecipeDetailResponse, error) {
	if localID, ok := strings.CutPrefix(id, localIDPrefix); ok {
		uploadID, err := strconv.ParseUint(localID, 10, 64)
		if err != nil {
			return nil, repository.NewNotFoundError("Recipe not found")
		}
		upload, err := s.Repo.GetUserRecipeByID(uint(uploadID))
		if err != nil {
			return nil, err
		}
		if upload.Status != models.ModerationApproved {
			return nil, repository.NewNotFoundError("Recipe not found")
		}
		return uploadDetail(upload), nil
	}

	sourceID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, repository.NewNotFoundError("Recipe not found")
	}

	if cached, err := s.Repo.GetCachedRecipeBySourceID(sourceID); err == nil {
		return cachedDetail(cached), nil
	}

	detail, err := s.Upstream.GetRecipe(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return upstreamDetail(detail), nil
}

func uploadDetail(r *models.UserRecipe) *RecipeDetailResponse {
	qr := uploadToQueryRecipe(r)
	return &RecipeDetailResponse{
		ID:           qr.ID(),
		Title:        r.Title,
		Summary:      r.Summary,
		ImageURL:     r.ImageURL,
		SourceURL:    r.SourceURL,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		ReadyMinutes: query.ResolveReadyMinutes(qr),
		Servings:     r.Servings,
		Diets:        r.Diets,
		DishTypes:    r.DishTypes,
		Difficulty:   query.RecipeDifficulty(qr),
		Community:    true,
	}
}

func cachedDetail(r *models.CachedRecipe) *RecipeDetailResponse {
	qr := cachedToQueryRecipe(r)
	return &RecipeDetailResponse{
		ID:           qr.ID(),
		Title:        r.Title,
		Summary:      r.Summary,
		ImageURL:     r.ImageURL,
		SourceURL:    r.SourceURL,
		Ingredients:  r.Ingredients,
		ReadyMinutes: query.ResolveReadyMinutes(qr),
		Servings:     r.Servings,
		Diets:        r.Diets,
		DishTypes:    r.DishTypes,
		Difficulty:   query.RecipeDifficulty(qr),
	}
}

func upstreamDetail(d *spoonacular.RecipeDetail) *RecipeDetailResponse {
	ingredients := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		if ing.OriginalText != "" {
			ingredients = append(ingredients, ing.OriginalText)
		} else {
			ingredients = append(ingredients, ing.Name)
		}
	}
	return &RecipeDetailResponse{
		ID:           d.Recipe.ID(),
		Title:        d.Title,
		Summary:      d.Summary,
		ImageURL:     d.ImageURL,
		SourceURL:    d.SourceURL,
		Ingredients:  ingredients,
		ReadyMinutes: query.ResolveReadyMinutes(d.Recipe),
		Servings:     d.Servings,
		Diets:        d.Diets,
		DishTypes:    d.DishTypes,
		Difficulty:   query.RecipeDifficulty(d.Recipe),
	}
}

// UploadRequest is the payload for a community recipe upload.
type UploadRequest struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	ImageURL     string   `json:"imageUrl"`
	SourceURL    string   `json:"sourceUrl"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ReadyMinutes int      `json:"readyMinutes"`
	PrepMinutes  int      `json:"prepMinutes"`
	CookMinutes  int      `json:"cookMinutes"`
	Servings     int      `json:"servings"`
	Diets        []string `json:"diets"`
	DishTypes    []string `json:"dishTypes"`
}

// Validate checks the structural requirements of an upload.
func (u *UploadRequest) Validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return errors.New("title is required")
	}
	if len(u.Ingredients) == 0 {
		return errors.New("at least one ingredient is required")
	}
	if u.SourceURL != "" && !govalidator.IsURL(u.SourceURL) {
		return errors.New("source URL is not a valid URL")
	}
	if u.ImageURL != "" && !govalidator.IsURL(u.ImageURL) {
		return errors.New("image URL is not a valid URL")
	}
	if u.ReadyMinutes < 0 || u.PrepMinutes < 0 || u.CookMinutes < 0 {
		return errors.New("timings must not be negative")
	}
	return nil
}

// UploadRecipe creates a pending community recipe. Uploads that trip the
// profanity screen are flagged so moderators see them first.
func (s *RecipeService) UploadRecipe(userID uint, req *UploadRequest) (*models.UserRecipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	flagged := profanityDetector.IsProfane(req.Title) ||
		profanityDetector.IsProfane(req.Summary) ||
		profanityDetector.IsProfane(strings.Join(req.Instructions, " "))

	recipe := &models.UserRecipe{
		Title:        strings.TrimSpace(req.Title),
		Summary:      req.Summary,
		ImageURL:     req.ImageURL,
		SourceURL:    req.SourceURL,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		ReadyMinutes: req.ReadyMinutes,
		PrepMinutes:  req.PrepMinutes,
		CookMinutes:  req.CookMinutes,
		Servings:     req.Servings,
		Diets:        req.Diets,
		DishTypes:    req.DishTypes,
		CreatedByID:  userID,
		Status:       models.ModerationPending,
		Flagged:      flagged,
	}

	if err := s.Repo.CreateUserRecipe(recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	if flagged {
		logger.Get().Info("upload flagged for review",
			zap.Uint("recipe_id", recipe.ID),
			zap.Uint("user_id", userID),
		)
	}

	return recipe, nil
}

// GetMyUploads returns all of a user's uploads, including pending and
// rejected ones.
func (s *RecipeService) GetMyUploads(userID uint) ([]models.UserRecipe, error) {
	return s.Repo.GetUserRecipesByCreator(userID)
}

// DeleteUpload deletes one of the user's own uploads.
func (s *RecipeService) DeleteUpload(userID uint, recipeID uint) error {
	recipe, err := s.Repo.GetUserRecipeByID(recipeID)
	if err != nil {
		return err
	}
	if recipe.CreatedByID != userID {
		return errors.New("recipe does not belong to this user")
	}
	return s.Repo.DeleteUserRecipe(recipeID)
}
