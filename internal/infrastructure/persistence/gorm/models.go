// Package gorm provides GORM model definitions and repositories
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for user profiles. The id is the
// identity provider's subject, not a generated key.
type UserModel struct {
	ID        string `gorm:"type:varchar(128);primaryKey"`
	Email     string `gorm:"type:varchar(255);index"`
	Name      string `gorm:"type:varchar(255)"`
	AvatarURL string `gorm:"type:text"`
	Rank      string `gorm:"type:varchar(50);default:'Beginner'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name
func (UserModel) TableName() string {
	return "users"
}

// RecipeRecordModel represents the GORM model for generated recipes
type RecipeRecordModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	OwnerID   string    `gorm:"type:varchar(128);not null;index:idx_recipes_owner_created,priority:1"`
	Prompt    string    `gorm:"type:text;not null"`
	Title     string    `gorm:"type:varchar(255)"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_recipes_owner_created,priority:2"`
}

// TableName overrides the table name
func (RecipeRecordModel) TableName() string {
	return "recipes"
}

// MealPlanModel represents the GORM model for generated meal plans
type MealPlanModel struct {
	ID                  uuid.UUID   `gorm:"type:char(36);primaryKey"`
	OwnerID             string      `gorm:"type:varchar(128);not null;index:idx_meal_plans_owner_created,priority:1"`
	Ingredients         string      `gorm:"type:text;not null"`
	MealsPerDay         int         `gorm:"not null"`
	Servings            int         `gorm:"not null"`
	DietaryRestrictions StringSlice `gorm:"type:json"`
	Title               string      `gorm:"type:varchar(255)"`
	Content             string      `gorm:"type:text;not null"`
	CreatedAt           time.Time   `gorm:"index:idx_meal_plans_owner_created,priority:2"`
}

// TableName overrides the table name
func (MealPlanModel) TableName() string {
	return "meal_plans"
}

// Models lists every model for auto-migration
func Models() []interface{} {
	return []interface{}{
		&UserModel{},
		&RecipeRecordModel{},
		&MealPlanModel{},
	}
}

// StringSlice custom type for handling string arrays
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// BeforeCreate hook for RecipeRecordModel
func (r *RecipeRecordModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
