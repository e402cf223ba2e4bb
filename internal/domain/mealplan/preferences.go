package mealplan

import (
	"strings"
	"unicode/utf8"
)

// Preference bounds and defaults
const (
	DefaultMealsPerDay = 3
	DefaultServings    = 1
	MaxMealsPerDay     = 6
	MaxServings        = 20
	MaxRestrictions    = 10
	MaxRestrictionLen  = 50
	MaxIngredientsLen  = 500
)

// Preferences describe what the user wants a meal plan built from.
type Preferences struct {
	Ingredients         string   `json:"ingredients"`
	MealsPerDay         int      `json:"mealsPerDay"`
	Servings            int      `json:"servings"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
}

// Normalize trims text fields and fills zero counts with their defaults.
func (p Preferences) Normalize() Preferences {
	p.Ingredients = strings.TrimSpace(p.Ingredients)
	if p.MealsPerDay == 0 {
		p.MealsPerDay = DefaultMealsPerDay
	}
	if p.Servings == 0 {
		p.Servings = DefaultServings
	}

	restrictions := make([]string, 0, len(p.DietaryRestrictions))
	for _, r := range p.DietaryRestrictions {
		restrictions = append(restrictions, strings.TrimSpace(r))
	}
	p.DietaryRestrictions = restrictions
	return p
}

// Validate checks normalized preferences.
func (p Preferences) Validate() error {
	switch {
	case p.Ingredients == "":
		return ErrIngredientsRequired
	case utf8.RuneCountInString(p.Ingredients) > MaxIngredientsLen:
		return ErrIngredientsTooLong
	case p.MealsPerDay < 1 || p.MealsPerDay > MaxMealsPerDay:
		return ErrInvalidMealsPerDay
	case p.Servings < 1 || p.Servings > MaxServings:
		return ErrInvalidServings
	case len(p.DietaryRestrictions) > MaxRestrictions:
		return ErrTooManyRestrictions
	}

	for _, r := range p.DietaryRestrictions {
		if r == "" || utf8.RuneCountInString(r) > MaxRestrictionLen {
			return ErrInvalidRestriction
		}
	}
	return nil
}

// RestrictionsText renders the restrictions for prompts and summaries.
func (p Preferences) RestrictionsText() string {
	if len(p.DietaryRestrictions) == 0 {
		return "None"
	}
	return strings.Join(p.DietaryRestrictions, ", ")
}
