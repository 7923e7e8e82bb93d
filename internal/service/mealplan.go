package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/repository"
)

// weekFormat is the wire format for week identifiers, e.g. "2026-08-24".
// Any date within the week resolves to that week's plan.
const weekFormat = "2006-01-02"

// MealPlanService is the business logic layer for weekly meal plans.
type MealPlanService struct {
	Repo repository.MealPlanRepo
}

// NewMealPlanService is the constructor function for initializing a new MealPlanService.
func NewMealPlanService(repo repository.MealPlanRepo) *MealPlanService {
	return &MealPlanService{Repo: repo}
}

// ParseWeek parses a week identifier into a normalized week start.
func ParseWeek(week string) (time.Time, error) {
	t, err := time.Parse(weekFormat, week)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week %q, want YYYY-MM-DD", week)
	}
	return models.NormalizeWeekStart(t), nil
}

// GetWeek returns the user's plan for the week containing the given date,
// creating an empty plan if none exists.
func (s *MealPlanService) GetWeek(userID uint, week string) (*models.MealPlan, error) {
	weekStart, err := ParseWeek(week)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetOrCreatePlan(userID, weekStart)
}

// ListPlans returns all of the user's plans.
func (s *MealPlanService) ListPlans(userID uint) ([]models.MealPlan, error) {
	return s.Repo.ListPlans(userID)
}

// AddEntryRequest is the payload for planning one meal.
type AddEntryRequest struct {
	Week     string          `json:"week"`
	Day      int             `json:"day"`
	Slot     models.MealSlot `json:"slot"`
	RecipeID string          `json:"recipeId"`
	Title    string          `json:"title"`
	Servings int             `json:"servings"`
}

// AddEntry plans one meal in the week's plan, creating the plan if needed.
func (s *MealPlanService) AddEntry(userID uint, req *AddEntryRequest) (*models.MealPlanEntry, error) {
	if req.RecipeID == "" {
		return nil, errors.New("recipeId is required")
	}
	if req.Title == "" {
		return nil, errors.New("title is required")
	}

	weekStart, err := ParseWeek(req.Week)
	if err != nil {
		return nil, err
	}

	plan, err := s.Repo.GetOrCreatePlan(userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}

	entry := &models.MealPlanEntry{
		PlanID:   plan.ID,
		Day:      req.Day,
		Slot:     req.Slot,
		RecipeID: req.RecipeID,
		Title:    req.Title,
		Servings: req.Servings,
	}
	if !entry.IsValidSlot() {
		return nil, errors.New("invalid meal slot")
	}
	if entry.Day < 0 || entry.Day > 6 {
		return nil, errors.New("day must be between 0 and 6")
	}

	if err := s.Repo.AddEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to add entry: %w", err)
	}
	return entry, nil
}

// RemoveEntry removes one planned meal, verifying plan ownership first.
func (s *MealPlanService) RemoveEntry(userID uint, planID uint, entryID uint) error {
	if _, err := s.Repo.GetPlanByID(userID, planID); err != nil {
		return err
	}
	return s.Repo.RemoveEntry(planID, entryID)
}

// DeletePlan deletes a whole week's plan.
func (s *MealPlanService) DeletePlan(userID uint, planID uint) error {
	return s.Repo.DeletePlan(userID, planID)
}
