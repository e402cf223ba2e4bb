package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/application/generation"
	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
)

// GenerationHandlers serves every generation variant through one handler
type GenerationHandlers struct {
	generator inbound.GenerationService
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewGenerationHandlers creates generation handlers on top of a dispatcher
func NewGenerationHandlers(generator inbound.GenerationService, validate *validator.Validate, logger *zap.Logger) *GenerationHandlers {
	return &GenerationHandlers{
		generator: generator,
		validate:  validate,
		logger:    logger.Named("generation-handlers"),
	}
}

// GenerateRequest carries the inputs of any variant. Fields a variant does
// not use are ignored.
type GenerateRequest struct {
	Prompt              string   `json:"prompt" validate:"max=500"`
	Ingredients         string   `json:"ingredients" validate:"max=500"`
	MealsPerDay         int      `json:"mealsPerDay" validate:"gte=0,lte=6"`
	Servings            int      `json:"servings" validate:"gte=0,lte=20"`
	DietaryRestrictions []string `json:"dietaryRestrictions" validate:"max=10,dive,max=50"`
}

var generatedMessages = map[string]string{
	generation.VariantRecipe:   "Recipe generated successfully",
	generation.VariantMealPlan: "Meal plan generated successfully",
}

// Generate handles POST /api/generate/:variant
func (h *GenerationHandlers) Generate(c *gin.Context) {
	h.generate(c, c.Param("variant"))
}

// FetchRecipe handles POST /api/fetch-recipe
func (h *GenerationHandlers) FetchRecipe(c *gin.Context) {
	h.generate(c, generation.VariantRecipe)
}

// GenerateMealPlan handles POST /api/generate-meal-plan
func (h *GenerationHandlers) GenerateMealPlan(c *gin.Context) {
	h.generate(c, generation.VariantMealPlan)
}

func (h *GenerationHandlers) generate(c *gin.Context, variant string) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req GenerateRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}

	dto, err := h.generator.Generate(c.Request.Context(), identity, inbound.GenerateRequest{
		Variant: variant,
		Prompt:  req.Prompt,
		Preferences: mealplan.Preferences{
			Ingredients:         req.Ingredients,
			MealsPerDay:         req.MealsPerDay,
			Servings:            req.Servings,
			DietaryRestrictions: req.DietaryRestrictions,
		},
	})
	if err != nil {
		h.logger.Debug("Generation failed",
			zap.String("variant", variant),
			zap.String("user_id", identity.UserID),
			zap.Error(err))
		fail(c, err)
		return
	}

	message, ok := generatedMessages[dto.Variant]
	if !ok {
		message = "Document generated successfully"
	}
	respond(c, http.StatusCreated, dto, message)
}
