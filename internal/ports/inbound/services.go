// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/domain/user"
)

// Identity is the authenticated caller, taken from the bearer token.
type Identity struct {
	UserID    string
	Email     string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

// GenerateRequest is the input of any generation variant. Only the fields
// the variant uses are read.
type GenerateRequest struct {
	Variant     string
	Prompt      string
	Preferences mealplan.Preferences
}

// GenerationService generates, stores and assembles a document.
type GenerationService interface {
	Generate(ctx context.Context, identity Identity, req GenerateRequest) (*GenerationDTO, error)
}

// RecipeService defines the recipe use cases
type RecipeService interface {
	GenerationService
	GenerateRecipe(ctx context.Context, identity Identity, prompt string) (*GenerationDTO, error)
	// LatestRecipe returns the newest recipe. With wait set, a missing
	// recipe is polled for before giving up.
	LatestRecipe(ctx context.Context, identity Identity, wait bool) (*GenerationDTO, error)
	ListRecipes(ctx context.Context, identity Identity, params PaginationParams) (*GenerationList, error)
}

// MealPlanService defines the meal-plan use cases
type MealPlanService interface {
	GenerationService
	GenerateMealPlan(ctx context.Context, identity Identity, prefs mealplan.Preferences) (*GenerationDTO, error)
	LatestMealPlan(ctx context.Context, identity Identity, wait bool) (*GenerationDTO, error)
	DeleteMealPlans(ctx context.Context, identity Identity) (int64, error)
}

// ProfileService defines the profile use cases
type ProfileService interface {
	GetProfile(ctx context.Context, identity Identity) (*ProfileDTO, error)
	ChangeAvatar(ctx context.Context, identity Identity) (*ProfileDTO, error)
}

// PaginationParams for list queries
type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalize applies defaults and bounds.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Offset returns the number of rows to skip.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// GenerationDTO is a stored generation together with its assembled document.
type GenerationDTO struct {
	ID          uuid.UUID               `json:"id"`
	Variant     string                  `json:"variant"`
	Prompt      string                  `json:"prompt,omitempty"`
	Preferences *mealplan.Preferences   `json:"preferences,omitempty"`
	Title       string                  `json:"title"`
	Content     string                  `json:"content"`
	Document    document.ParsedDocument `json:"document"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// GenerationList is a page of generations
type GenerationList struct {
	Items      []*GenerationDTO `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// ProfileDTO is the profile page payload
type ProfileDTO struct {
	UserID        string       `json:"userId"`
	Email         string       `json:"email,omitempty"`
	Name          string       `json:"name,omitempty"`
	AvatarURL     string       `json:"avatarUrl,omitempty"`
	Rank          user.Rank    `json:"rank"`
	Stats         user.Stats   `json:"stats"`
	TotalSearches int          `json:"totalSearches"`
	Medals        []user.Medal `json:"medals"`
}
