// Package recipe provides the application layer for generated recipes
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/application/generation"
	"github.com/nutrino-ai/nutrino/internal/domain/recipe"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
	"github.com/nutrino-ai/nutrino/pkg/consistency"
	apperrors "github.com/nutrino-ai/nutrino/pkg/errors"
)

// RecipeService implements the recipe use cases
type RecipeService struct {
	records  outbound.RecipeRecordRepository
	users    outbound.UserRepository
	engine   *generation.Engine
	variant  generation.Variant
	policy   consistency.Policy
	observer consistency.Observer
	logger   *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	records outbound.RecipeRecordRepository,
	users outbound.UserRepository,
	engine *generation.Engine,
	policy consistency.Policy,
	observer consistency.Observer,
	logger *zap.Logger,
) inbound.RecipeService {
	variant, _ := generation.Lookup(generation.VariantRecipe)
	return &RecipeService{
		records:  records,
		users:    users,
		engine:   engine,
		variant:  variant,
		policy:   policy,
		observer: observer,
		logger:   logger.Named("recipe-service"),
	}
}

// Generate implements inbound.GenerationService
func (s *RecipeService) Generate(ctx context.Context, identity inbound.Identity, req inbound.GenerateRequest) (*inbound.GenerationDTO, error) {
	return s.GenerateRecipe(ctx, identity, req.Prompt)
}

// GenerateRecipe generates a recipe for prompt, stores it and returns it
// as read back from the store.
func (s *RecipeService) GenerateRecipe(ctx context.Context, identity inbound.Identity, prompt string) (*inbound.GenerationDTO, error) {
	prompt, err := recipe.ValidatePrompt(prompt)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithMetadata("field", "prompt")
	}

	if _, err := generation.EnsureUser(ctx, s.users, identity); err != nil {
		return nil, err
	}

	s.logger.Info("Generating recipe",
		zap.String("user_id", identity.UserID),
		zap.Int("prompt_length", len(prompt)),
	)

	content, err := s.engine.Generate(ctx, s.variant, inbound.GenerateRequest{Variant: s.variant.Name, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	record, err := recipe.NewRecord(identity.UserID, prompt, content)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create recipe record")
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, apperrors.NewDatabaseError("save recipe", err)
	}

	stored, err := consistency.Fetch(ctx, s.policy, s.byID(record.ID()), s.fetchOptions()...)
	if err != nil {
		return nil, s.readError(identity, err)
	}

	s.logger.Info("Recipe generated",
		zap.String("user_id", identity.UserID),
		zap.String("recipe_id", stored.ID().String()),
		zap.String("title", stored.Title()),
	)

	return s.toDTO(stored), nil
}

// LatestRecipe returns the caller's newest recipe
func (s *RecipeService) LatestRecipe(ctx context.Context, identity inbound.Identity, wait bool) (*inbound.GenerationDTO, error) {
	policy := consistency.Single()
	if wait {
		policy = s.policy
	}

	query := func(ctx context.Context) (*recipe.Record, bool, error) {
		r, err := s.records.FindLatestByOwner(ctx, identity.UserID)
		if errors.Is(err, recipe.ErrRecordNotFound) {
			return nil, false, nil
		}
		return r, err == nil, err
	}

	latest, err := consistency.Fetch(ctx, policy, query, s.fetchOptions()...)
	if err != nil {
		return nil, s.readError(identity, err)
	}
	return s.toDTO(latest), nil
}

// ListRecipes returns a page of the caller's recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, identity inbound.Identity, params inbound.PaginationParams) (*inbound.GenerationList, error) {
	params = params.Normalize()

	records, total, err := s.records.FindByOwner(ctx, identity.UserID, params.Offset(), params.PageSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recipes", err)
	}

	items := make([]*inbound.GenerationDTO, 0, len(records))
	for _, r := range records {
		items = append(items, s.toDTO(r))
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	return &inbound.GenerationList{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *RecipeService) byID(id uuid.UUID) consistency.Query[*recipe.Record] {
	return func(ctx context.Context) (*recipe.Record, bool, error) {
		r, err := s.records.FindByID(ctx, id)
		if errors.Is(err, recipe.ErrRecordNotFound) {
			return nil, false, nil
		}
		return r, err == nil, err
	}
}

func (s *RecipeService) fetchOptions() []consistency.Option {
	return []consistency.Option{
		consistency.WithCollection(s.variant.Collection),
		consistency.WithLogger(s.logger),
		consistency.WithObserver(s.observer),
	}
}

func (s *RecipeService) readError(identity inbound.Identity, err error) error {
	var exhausted *consistency.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		s.logger.Warn("Recipe not visible after retries",
			zap.String("user_id", identity.UserID),
			zap.Int("attempts", exhausted.Attempts),
		)
		return apperrors.NewNotFoundAfterRetryError(s.variant.Collection, exhausted.Attempts, err)
	case errors.Is(err, consistency.ErrNotFound):
		return apperrors.NewRecipeNotFoundError(identity.UserID)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewAppError(apperrors.CodeServiceUnavailable, "Request cancelled", "").WithCause(err)
	default:
		return apperrors.NewDatabaseError("read recipe", err)
	}
}

func (s *RecipeService) toDTO(r *recipe.Record) *inbound.GenerationDTO {
	return &inbound.GenerationDTO{
		ID:        r.ID(),
		Variant:   s.variant.Name,
		Prompt:    r.Prompt(),
		Title:     r.Title(),
		Content:   r.Content(),
		Document:  s.engine.Assemble(s.variant, r.Content()),
		CreatedAt: r.CreatedAt(),
	}
}
