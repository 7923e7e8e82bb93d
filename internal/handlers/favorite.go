package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartplates/smartplates-api/internal/logger"
	"github.com/smartplates/smartplates-api/internal/repository"
	"github.com/smartplates/smartplates-api/internal/service"
	"github.com/smartplates/smartplates-api/internal/util"
	"go.uber.org/zap"
)

// FavoriteHandler is the handler for saved recipe requests.
type FavoriteHandler struct {
	Service *service.FavoriteService
}

// NewFavoriteHandler is the constructor function for initializing a new FavoriteHandler.
func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{Service: favoriteService}
}

// ListFavorites returns the user's saved recipes.
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	favorites, err := h.Service.List(user.ID)
	if err != nil {
		logger.Get().Error("failed to list favorites", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// SaveFavorite saves a recipe.
func (h *FavoriteHandler) SaveFavorite(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req service.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.Service.Save(user.ID, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Recipe saved"})
}

// RemoveFavorite removes a saved recipe.
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recipeID := c.Param("recipe_id")
	if err := h.Service.Unsave(user.ID, recipeID); err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}
