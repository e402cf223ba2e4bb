// Package profile provides the application layer for user profiles
package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/application/generation"
	"github.com/nutrino-ai/nutrino/internal/domain/user"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
	apperrors "github.com/nutrino-ai/nutrino/pkg/errors"
)

// ProfileService implements the profile use cases
type ProfileService struct {
	users   outbound.UserRepository
	recipes outbound.RecipeRecordRepository
	plans   outbound.MealPlanRepository
	logger  *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	users outbound.UserRepository,
	recipes outbound.RecipeRecordRepository,
	plans outbound.MealPlanRepository,
	logger *zap.Logger,
) inbound.ProfileService {
	return &ProfileService{
		users:   users,
		recipes: recipes,
		plans:   plans,
		logger:  logger.Named("profile-service"),
	}
}

// GetProfile returns the caller's stats, rank and medals. A rank change is
// written back to the profile.
func (s *ProfileService) GetProfile(ctx context.Context, identity inbound.Identity) (*inbound.ProfileDTO, error) {
	u, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipes.CountByOwner(ctx, u.ID())
	if err != nil {
		return nil, apperrors.NewDatabaseError("count recipes", err)
	}
	plans, err := s.plans.CountByOwner(ctx, u.ID())
	if err != nil {
		return nil, apperrors.NewDatabaseError("count meal plans", err)
	}

	stats := user.Stats{Recipes: recipes, MealPlans: plans}
	previous := u.Rank()
	if u.UpdateRank(stats.TotalSearches()) {
		if err := s.users.UpdateRank(ctx, u.ID(), u.Rank()); err != nil {
			return nil, apperrors.NewDatabaseError("update rank", err)
		}
		s.logger.Info("Rank changed",
			zap.String("user_id", u.ID()),
			zap.String("from", string(previous)),
			zap.String("to", string(u.Rank())),
		)
	}

	return toDTO(u, stats), nil
}

// ChangeAvatar draws a new random avatar for the caller and returns the
// updated profile.
func (s *ProfileService) ChangeAvatar(ctx context.Context, identity inbound.Identity) (*inbound.ProfileDTO, error) {
	u, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}

	avatar := u.ChangeAvatar(uuid.NewString())
	if err := s.users.UpdateAvatar(ctx, u.ID(), avatar); err != nil {
		return nil, apperrors.NewDatabaseError("update avatar", err)
	}

	s.logger.Info("Avatar changed", zap.String("user_id", u.ID()))
	return s.GetProfile(ctx, identity)
}

func (s *ProfileService) load(ctx context.Context, identity inbound.Identity) (*user.User, error) {
	u, err := s.users.FindByID(ctx, identity.UserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, apperrors.NewDatabaseError("load profile", err)
	}
	return generation.EnsureUser(ctx, s.users, identity)
}

func toDTO(u *user.User, stats user.Stats) *inbound.ProfileDTO {
	total := stats.TotalSearches()
	return &inbound.ProfileDTO{
		UserID:        u.ID(),
		Email:         u.Email(),
		Name:          u.Name(),
		AvatarURL:     u.AvatarURL(),
		Rank:          u.Rank(),
		Stats:         stats,
		TotalSearches: total,
		Medals:        user.MedalsFor(total),
	}
}
