// Package mealplan provides the application layer for generated meal plans
package mealplan

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/application/generation"
	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
	"github.com/nutrino-ai/nutrino/pkg/consistency"
	apperrors "github.com/nutrino-ai/nutrino/pkg/errors"
)

// MealPlanService implements the meal-plan use cases
type MealPlanService struct {
	plans    outbound.MealPlanRepository
	users    outbound.UserRepository
	engine   *generation.Engine
	variant  generation.Variant
	policy   consistency.Policy
	observer consistency.Observer
	logger   *zap.Logger
}

// NewMealPlanService creates a new meal-plan service
func NewMealPlanService(
	plans outbound.MealPlanRepository,
	users outbound.UserRepository,
	engine *generation.Engine,
	policy consistency.Policy,
	observer consistency.Observer,
	logger *zap.Logger,
) inbound.MealPlanService {
	variant, _ := generation.Lookup(generation.VariantMealPlan)
	return &MealPlanService{
		plans:    plans,
		users:    users,
		engine:   engine,
		variant:  variant,
		policy:   policy,
		observer: observer,
		logger:   logger.Named("mealplan-service"),
	}
}

// Generate implements inbound.GenerationService
func (s *MealPlanService) Generate(ctx context.Context, identity inbound.Identity, req inbound.GenerateRequest) (*inbound.GenerationDTO, error) {
	return s.GenerateMealPlan(ctx, identity, req.Preferences)
}

// GenerateMealPlan generates a plan from prefs, stores it and returns it as
// read back from the store.
func (s *MealPlanService) GenerateMealPlan(ctx context.Context, identity inbound.Identity, prefs mealplan.Preferences) (*inbound.GenerationDTO, error) {
	prefs = prefs.Normalize()
	if err := prefs.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if _, err := generation.EnsureUser(ctx, s.users, identity); err != nil {
		return nil, err
	}

	s.logger.Info("Generating meal plan",
		zap.String("user_id", identity.UserID),
		zap.Int("meals_per_day", prefs.MealsPerDay),
		zap.Int("servings", prefs.Servings),
		zap.Strings("dietary_restrictions", prefs.DietaryRestrictions),
	)

	content, err := s.engine.Generate(ctx, s.variant, inbound.GenerateRequest{Variant: s.variant.Name, Preferences: prefs})
	if err != nil {
		return nil, err
	}

	plan, err := mealplan.NewPlan(identity.UserID, prefs, content)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create meal plan")
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, apperrors.NewDatabaseError("save meal plan", err)
	}

	stored, err := consistency.Fetch(ctx, s.policy, s.byID(plan.ID()), s.fetchOptions()...)
	if err != nil {
		return nil, s.readError(identity, err)
	}

	s.logger.Info("Meal plan generated",
		zap.String("user_id", identity.UserID),
		zap.String("plan_id", stored.ID().String()),
	)
	return s.toDTO(stored), nil
}

// LatestMealPlan returns the caller's newest plan
func (s *MealPlanService) LatestMealPlan(ctx context.Context, identity inbound.Identity, wait bool) (*inbound.GenerationDTO, error) {
	policy := consistency.Single()
	if wait {
		policy = s.policy
	}

	query := func(ctx context.Context) (*mealplan.Plan, bool, error) {
		p, err := s.plans.FindLatestByOwner(ctx, identity.UserID)
		if errors.Is(err, mealplan.ErrPlanNotFound) {
			return nil, false, nil
		}
		return p, err == nil, err
	}

	latest, err := consistency.Fetch(ctx, policy, query, s.fetchOptions()...)
	if err != nil {
		return nil, s.readError(identity, err)
	}
	return s.toDTO(latest), nil
}

// DeleteMealPlans removes every plan of the caller
func (s *MealPlanService) DeleteMealPlans(ctx context.Context, identity inbound.Identity) (int64, error) {
	deleted, err := s.plans.DeleteByOwner(ctx, identity.UserID)
	if err != nil {
		return 0, apperrors.NewDatabaseError("delete meal plans", err)
	}

	s.logger.Info("Meal plans deleted",
		zap.String("user_id", identity.UserID),
		zap.Int64("count", deleted),
	)
	return deleted, nil
}

func (s *MealPlanService) byID(id uuid.UUID) consistency.Query[*mealplan.Plan] {
	return func(ctx context.Context) (*mealplan.Plan, bool, error) {
		p, err := s.plans.FindByID(ctx, id)
		if errors.Is(err, mealplan.ErrPlanNotFound) {
			return nil, false, nil
		}
		return p, err == nil, err
	}
}

func (s *MealPlanService) fetchOptions() []consistency.Option {
	return []consistency.Option{
		consistency.WithCollection(s.variant.Collection),
		consistency.WithLogger(s.logger),
		consistency.WithObserver(s.observer),
	}
}

func (s *MealPlanService) readError(identity inbound.Identity, err error) error {
	var exhausted *consistency.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		s.logger.Warn("Meal plan not visible after retries",
			zap.String("user_id", identity.UserID),
			zap.Int("attempts", exhausted.Attempts),
		)
		return apperrors.NewNotFoundAfterRetryError(s.variant.Collection, exhausted.Attempts, err)
	case errors.Is(err, consistency.ErrNotFound):
		return apperrors.NewMealPlanNotFoundError(identity.UserID)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewAppError(apperrors.CodeServiceUnavailable, "Request cancelled", "").WithCause(err)
	default:
		return apperrors.NewDatabaseError("read meal plan", err)
	}
}

func (s *MealPlanService) toDTO(p *mealplan.Plan) *inbound.GenerationDTO {
	prefs := p.Preferences()
	return &inbound.GenerationDTO{
		ID:          p.ID(),
		Variant:     s.variant.Name,
		Preferences: &prefs,
		Title:       p.Title(),
		Content:     p.Content(),
		Document:    s.engine.Assemble(s.variant, p.Content()),
		CreatedAt:   p.CreatedAt(),
	}
}
