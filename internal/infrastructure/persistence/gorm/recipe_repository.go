package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrino-ai/nutrino/internal/domain/recipe"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
)

// RecipeRecordRepository implements the recipe repository interface using GORM
type RecipeRecordRepository struct {
	db *gorm.DB
}

// NewRecipeRecordRepository creates a new recipe repository
func NewRecipeRecordRepository(db *gorm.DB) outbound.RecipeRecordRepository {
	return &RecipeRecordRepository{db: db}
}

// Create stores a new record
func (r *RecipeRecordRepository) Create(ctx context.Context, record *recipe.Record) error {
	return r.db.WithContext(ctx).Create(RecordToModel(record)).Error
}

// FindByID finds a record by ID
func (r *RecipeRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Record, error) {
	var model RecipeRecordModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecordNotFound
		}
		return nil, result.Error
	}

	return ModelToRecord(&model), nil
}

// FindLatestByOwner returns the owner's newest record
func (r *RecipeRecordRepository) FindLatestByOwner(ctx context.Context, ownerID string) (*recipe.Record, error) {
	var model RecipeRecordModel

	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(1).
		Find(&model)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, recipe.ErrRecordNotFound
	}

	return ModelToRecord(&model), nil
}

// FindByOwner returns a page of the owner's records, newest first, and
// the owner's total count.
func (r *RecipeRecordRepository) FindByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*recipe.Record, int64, error) {
	var models []RecipeRecordModel
	var total int64

	query := r.db.WithContext(ctx).Model(&RecipeRecordModel{}).Where("owner_id = ?", ownerID)

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Session(&gorm.Session{}).Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*recipe.Record, len(models))
	for i := range models {
		records[i] = ModelToRecord(&models[i])
	}

	return records, total, nil
}

// CountByOwner counts the owner's records
func (r *RecipeRecordRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RecipeRecordModel{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
