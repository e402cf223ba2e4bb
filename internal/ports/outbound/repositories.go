// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/domain/recipe"
	"github.com/nutrino-ai/nutrino/internal/domain/user"
)

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

// RecipeRecordRepository stores generated recipes.
// Lookups of a single record return recipe.ErrRecordNotFound when nothing matches.
type RecipeRecordRepository interface {
	Create(ctx context.Context, record *recipe.Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Record, error)
	FindLatestByOwner(ctx context.Context, ownerID string) (*recipe.Record, error)
	FindByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*recipe.Record, int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// MealPlanRepository stores generated meal plans.
// Lookups of a single plan return mealplan.ErrPlanNotFound when nothing matches.
type MealPlanRepository interface {
	Create(ctx context.Context, plan *mealplan.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error)
	FindLatestByOwner(ctx context.Context, ownerID string) (*mealplan.Plan, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// UserRepository stores user profiles.
// FindByID returns user.ErrUserNotFound for unknown ids.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	// Ensure creates the profile if it does not exist and refreshes its
	// non-empty email and name otherwise. Rank and avatar are untouched.
	Ensure(ctx context.Context, u *user.User) error
	UpdateRank(ctx context.Context, id string, rank user.Rank) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
