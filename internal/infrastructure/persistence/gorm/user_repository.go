package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nutrino-ai/nutrino/internal/domain/user"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, result.Error
	}

	return ModelToUser(&model), nil
}

// Ensure inserts the profile when missing and otherwise refreshes the
// non-empty identity fields. Rank and avatar are left alone.
func (r *UserRepository) Ensure(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := UserToModel(u)
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		updates := map[string]interface{}{}
		if u.Email() != "" {
			updates["email"] = u.Email()
		}
		if u.Name() != "" {
			updates["name"] = u.Name()
		}
		if len(updates) == 0 {
			return nil
		}
		updates["updated_at"] = time.Now().UTC()
		return tx.Model(&UserModel{}).Where("id = ?", u.ID()).Updates(updates).Error
	})
}

// UpdateRank stores a user's rank
func (r *UserRepository) UpdateRank(ctx context.Context, id string, rank user.Rank) error {
	return r.updateColumn(ctx, id, "rank", string(rank))
}

// UpdateAvatar stores a user's avatar
func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.updateColumn(ctx, id, "avatar_url", avatarURL)
}

func (r *UserRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{column: value, "updated_at": time.Now().UTC()})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}
