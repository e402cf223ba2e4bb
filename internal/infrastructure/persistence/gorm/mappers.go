package gorm

import (
	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/domain/recipe"
	"github.com/nutrino-ai/nutrino/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		AvatarURL: u.AvatarURL(),
		Rank:      string(u.Rank()),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(m *UserModel) *user.User {
	return user.ReconstructUser(m.ID, m.Email, m.Name, m.AvatarURL, user.Rank(m.Rank), m.CreatedAt, m.UpdatedAt)
}

// RecordToModel converts a recipe record to a GORM model
func RecordToModel(r *recipe.Record) *RecipeRecordModel {
	return &RecipeRecordModel{
		ID:        r.ID(),
		OwnerID:   r.OwnerID(),
		Prompt:    r.Prompt(),
		Title:     r.Title(),
		Content:   r.Content(),
		CreatedAt: r.CreatedAt(),
	}
}

// ModelToRecord converts a GORM model to a recipe record
func ModelToRecord(m *RecipeRecordModel) *recipe.Record {
	return recipe.ReconstructRecord(m.ID, m.OwnerID, m.Prompt, m.Title, m.Content, m.CreatedAt.UTC())
}

// PlanToModel converts a meal plan to a GORM model
func PlanToModel(p *mealplan.Plan) *MealPlanModel {
	prefs := p.Preferences()
	return &MealPlanModel{
		ID:                  p.ID(),
		OwnerID:             p.OwnerID(),
		Ingredients:         prefs.Ingredients,
		MealsPerDay:         prefs.MealsPerDay,
		Servings:            prefs.Servings,
		DietaryRestrictions: StringSlice(prefs.DietaryRestrictions),
		Title:               p.Title(),
		Content:             p.Content(),
		CreatedAt:           p.CreatedAt(),
	}
}

// ModelToPlan converts a GORM model to a meal plan
func ModelToPlan(m *MealPlanModel) *mealplan.Plan {
	prefs := mealplan.Preferences{
		Ingredients:         m.Ingredients,
		MealsPerDay:         m.MealsPerDay,
		Servings:            m.Servings,
		DietaryRestrictions: []string(m.DietaryRestrictions),
	}
	return mealplan.ReconstructPlan(m.ID, m.OwnerID, prefs, m.Title, m.Content, m.CreatedAt.UTC())
}
