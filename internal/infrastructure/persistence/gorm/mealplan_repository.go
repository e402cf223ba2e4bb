package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
)

// MealPlanRepository implements the meal-plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal-plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Create stores a new plan
func (r *MealPlanRepository) Create(ctx context.Context, plan *mealplan.Plan) error {
	return r.db.WithContext(ctx).Create(PlanToModel(plan)).Error
}

// FindByID finds a plan by ID
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.Plan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, mealplan.ErrPlanNotFound
		}
		return nil, result.Error
	}

	return ModelToPlan(&model), nil
}

// FindLatestByOwner returns the owner's newest plan
func (r *MealPlanRepository) FindLatestByOwner(ctx context.Context, ownerID string) (*mealplan.Plan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(1).
		Find(&model)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, mealplan.ErrPlanNotFound
	}

	return ModelToPlan(&model), nil
}

// DeleteByOwner removes every plan of the owner and returns how many
// were removed.
func (r *MealPlanRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&MealPlanModel{})
	return result.RowsAffected, result.Error
}

// CountByOwner counts the owner's plans
func (r *MealPlanRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&MealPlanModel{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
