package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartplates/smartplates-api/internal/logger"
	"github.com/smartplates/smartplates-api/internal/repository"
	"github.com/smartplates/smartplates-api/internal/service"
	"github.com/smartplates/smartplates-api/internal/util"
	"go.uber.org/zap"
)

// MealPlanHandler is the handler for weekly meal plan requests.
type MealPlanHandler struct {
	Service *service.MealPlanService
}

// NewMealPlanHandler is the constructor function for initializing a new MealPlanHandler.
func NewMealPlanHandler(mealPlanService *service.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{Service: mealPlanService}
}

// GetWeek returns the plan for the week containing the given date, creating
// an empty plan on first access. Defaults to the current week.
func (h *MealPlanHandler) GetWeek(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	week := c.Query("week")
	if week == "" {
		week = time.Now().UTC().Format("2006-01-02")
	}

	plan, err := h.Service.GetWeek(user.ID, week)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ListPlans returns all of the user's plans.
func (h *MealPlanHandler) ListPlans(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	plans, err := h.Service.ListPlans(user.ID)
	if err != nil {
		logger.Get().Error("failed to list plans", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// AddEntry plans one meal.
func (h *MealPlanHandler) AddEntry(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req service.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entry, err := h.Service.AddEntry(user.ID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// RemoveEntry removes one planned meal.
func (h *MealPlanHandler) RemoveEntry(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	planID, err := parseUintParam(c.Param("plan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}
	entryID, err := parseUintParam(c.Param("entry_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := h.Service.RemoveEntry(user.ID, planID, entryID); err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry removed"})
}

// DeletePlan deletes a whole week's plan.
func (h *MealPlanHandler) DeletePlan(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	planID, err := parseUintParam(c.Param("plan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}

	if err := h.Service.DeletePlan(user.ID, planID); err != nil {
		var notFound repository.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}
