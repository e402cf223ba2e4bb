package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
)

// LibraryHandlers serves the caller's stored recipes and meal plans
type LibraryHandlers struct {
	recipes  inbound.RecipeService
	plans    inbound.MealPlanService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewLibraryHandlers creates a new library handlers instance
func NewLibraryHandlers(
	recipes inbound.RecipeService,
	plans inbound.MealPlanService,
	validate *validator.Validate,
	logger *zap.Logger,
) *LibraryHandlers {
	return &LibraryHandlers{
		recipes:  recipes,
		plans:    plans,
		validate: validate,
		logger:   logger.Named("library-handlers"),
	}
}

// ListQuery is the pagination of GET /api/recipes
type ListQuery struct {
	Page     int `form:"page" validate:"gte=0"`
	PageSize int `form:"page_size" validate:"gte=0,lte=100"`
}

// LatestQuery selects whether a missing document is waited for
type LatestQuery struct {
	Wait bool `form:"wait"`
}

// ListRecipes handles GET /api/recipes
func (h *LibraryHandlers) ListRecipes(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var query ListQuery
	if !bindQuery(c, h.validate, &query) {
		return
	}

	list, err := h.recipes.ListRecipes(c.Request.Context(), identity, inbound.PaginationParams{
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, list, "Recipes retrieved successfully")
}

// LatestRecipe handles GET /api/recipes/latest
func (h *LibraryHandlers) LatestRecipe(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var query LatestQuery
	if !bindQuery(c, h.validate, &query) {
		return
	}

	dto, err := h.recipes.LatestRecipe(c.Request.Context(), identity, query.Wait)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, dto, "Recipe retrieved successfully")
}

// LatestMealPlan handles GET /api/meal-plans/latest
func (h *LibraryHandlers) LatestMealPlan(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var query LatestQuery
	if !bindQuery(c, h.validate, &query) {
		return
	}

	dto, err := h.plans.LatestMealPlan(c.Request.Context(), identity, query.Wait)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, dto, "Meal plan retrieved successfully")
}

// DeleteMealPlans handles DELETE /api/meal-plans and DELETE /api/delete-meal-plan
func (h *LibraryHandlers) DeleteMealPlans(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	deleted, err := h.plans.DeleteMealPlans(c.Request.Context(), identity)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted": deleted}, "Meal plans deleted successfully")
}
