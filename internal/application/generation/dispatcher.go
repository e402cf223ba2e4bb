package generation

import (
	"context"

	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	apperrors "github.com/nutrino-ai/nutrino/pkg/errors"
)

// Dispatcher routes a generation request to the service owning its variant.
type Dispatcher struct {
	targets map[string]inbound.GenerationService
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher for the recipe and meal-plan services
func NewDispatcher(recipes inbound.RecipeService, plans inbound.MealPlanService, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		targets: map[string]inbound.GenerationService{
			VariantRecipe:   recipes,
			VariantMealPlan: plans,
		},
		logger: logger.Named("dispatcher"),
	}
}

// Generate implements inbound.GenerationService
func (d *Dispatcher) Generate(ctx context.Context, identity inbound.Identity, req inbound.GenerateRequest) (*inbound.GenerationDTO, error) {
	v, err := Lookup(req.Variant)
	if err != nil {
		d.logger.Debug("Unknown variant requested", zap.String("variant", req.Variant))
		return nil, apperrors.NewUnknownVariantError(req.Variant)
	}

	target, ok := d.targets[v.Name]
	if !ok {
		return nil, apperrors.NewUnknownVariantError(req.Variant)
	}

	req.Variant = v.Name
	return target.Generate(ctx, identity, req)
}
