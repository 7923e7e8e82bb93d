package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartplates/smartplates-api/internal/logger"
	"github.com/smartplates/smartplates-api/internal/query"
	"github.com/smartplates/smartplates-api/internal/repository"
	"github.com/smartplates/smartplates-api/internal/service"
	"github.com/smartplates/smartplates-api/internal/util"
	"go.uber.org/zap"
)

// RecipeHandler is the handler for recipe discovery and upload requests.
type RecipeHandler struct {
	Service *service.RecipeService
}

// NewRecipeHandler is the constructor function for initializing a new RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{Service: recipeService}
}

// SearchRecipes runs one discovery query. Facet narrowing and the page
// cursor come from query string parameters; the access tier comes from the
// optional token.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	req := query.Request{
		SearchText:      c.Query("q"),
		Category:        c.Query("category"),
		Diet:            c.Query("diet"),
		Intolerance:     c.Query("intolerance"),
		Difficulty:      query.Difficulty(c.Query("difficulty")),
		Page:            parsePositiveQuery(c.Query("page"), 1, 0),
		PageSize:        parsePositiveQuery(c.Query("page_size"), 0, 100),
		IsAuthenticated: util.IsAuthenticated(c),
	}

	if req.Difficulty != "" && !req.Difficulty.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid difficulty"})
		return
	}

	result, err := h.Service.Query(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, query.ErrSuperseded) {
			// A newer query from the same client replaced this one.
			c.JSON(http.StatusConflict, gin.H{"error": "Query superseded by a newer request"})
			return
		}
		var upstreamErr query.UpstreamError
		if errors.As(err, &upstreamErr) {
			logger.Get().Warn("upstream search failed",
				zap.Int("status", upstreamErr.Status),
				zap.Error(err),
			)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Recipe source is unavailable"})
			return
		}
		logger.Get().Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecipe resolves one unified recipe ID to its detail view.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID := c.Param("recipe_id")

	detail, err := h.Service.GetRecipeDetail(c.Request.Context(), recipeID)
	if err != nil {
		var notFound repository.NotFoundError
		var upstreamErr query.UpstreamError
		switch {
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		case errors.As(err, &upstreamErr):
			logger.Get().Warn("upstream detail fetch failed",
				zap.String("recipe_id", recipeID),
				zap.Int("status", upstreamErr.Status),
			)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Recipe source is unavailable"})
		default:
			logger.Get().Error("failed to get recipe", zap.String("recipe_id", recipeID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UploadRecipe creates a pending community recipe for the authenticated user.
func (h *RecipeHandler) UploadRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req service.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	recipe, err := h.Service.UploadRecipe(user.ID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// GetMyUploads lists the authenticated user's uploads in every status.
func (h *RecipeHandler) GetMyUploads(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	uploads, err := h.Service.GetMyUploads(user.ID)
	if err != nil {
		logger.Get().Error("failed to list uploads", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list uploads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

// DeleteUpload deletes one of the authenticated user's uploads.
func (h *RecipeHandler) DeleteUpload(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recipeID, err := parseUintParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	if err := h.Service.DeleteUpload(user.ID, recipeID); err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upload deleted"})
}
