// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/domain/recipe"
	"github.com/nutrino-ai/nutrino/internal/domain/user"
)

// MockTextGenerator provides a mock implementation of TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

// Generate returns the configured text
func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// Name identifies the mock provider
func (m *MockTextGenerator) Name() string {
	return "mock"
}

// Ping checks the mock provider
func (m *MockTextGenerator) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRecipeRecordRepository provides a mock implementation of RecipeRecordRepository
type MockRecipeRecordRepository struct {
	mock.Mock
}

// Create stores a record
func (m *MockRecipeRecordRepository) Create(ctx context.Context, r *recipe.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// FindByID finds a record by ID
func (m *MockRecipeRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Record, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*recipe.Record); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindLatestByOwner finds the newest record of an owner
func (m *MockRecipeRecordRepository) FindLatestByOwner(ctx context.Context, ownerID string) (*recipe.Record, error) {
	args := m.Called(ctx, ownerID)
	if r, ok := args.Get(0).(*recipe.Record); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByOwner lists an owner's records
func (m *MockRecipeRecordRepository) FindByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*recipe.Record, int64, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	records, _ := args.Get(0).([]*recipe.Record)
	return records, args.Get(1).(int64), args.Error(2)
}

// CountByOwner counts an owner's records
func (m *MockRecipeRecordRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMealPlanRepository provides a mock implementation of MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

// Create stores a plan
func (m *MockMealPlanRepository) Create(ctx context.Context, p *mealplan.Plan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// FindByID finds a plan by ID
func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*mealplan.Plan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindLatestByOwner finds the newest plan of an owner
func (m *MockMealPlanRepository) FindLatestByOwner(ctx context.Context, ownerID string) (*mealplan.Plan, error) {
	args := m.Called(ctx, ownerID)
	if p, ok := args.Get(0).(*mealplan.Plan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteByOwner removes an owner's plans
func (m *MockMealPlanRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// CountByOwner counts an owner's plans
func (m *MockMealPlanRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository provides a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// Ensure creates or refreshes a user
func (m *MockUserRepository) Ensure(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// UpdateRank stores a user's rank
func (m *MockUserRepository) UpdateRank(ctx context.Context, id string, rank user.Rank) error {
	args := m.Called(ctx, id, rank)
	return args.Error(0)
}

// UpdateAvatar stores a user's avatar
func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

// Get reads a key
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// Set writes a key
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete removes a key
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Exists checks a key
func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) GenerationRequest(variant, provider, status string, duration time.Duration) {}
func (NopMetrics) PlaceholderSections(view string, labels []string)                            {}
func (NopMetrics) ObserveRead(collection string, attempts int, found bool)                     {}
func (NopMetrics) CacheOperation(operation, cacheType, status string)                          {}
