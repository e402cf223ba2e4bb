package mealplan

import "errors"

// Domain errors for meal plans

var (
	// Preference validation errors
	ErrIngredientsRequired = errors.New("ingredients are required")
	ErrIngredientsTooLong  = errors.New("ingredients must not exceed 500 characters")
	ErrInvalidMealsPerDay  = errors.New("meals per day must be between 1 and 6")
	ErrInvalidServings     = errors.New("servings must be between 1 and 20")
	ErrTooManyRestrictions = errors.New("at most 10 dietary restrictions are allowed")
	ErrInvalidRestriction  = errors.New("dietary restrictions must be non-empty and at most 50 characters")

	// Entity errors
	ErrMissingOwner = errors.New("meal plan must have an owner")
	ErrEmptyContent = errors.New("meal plan must have content")
	ErrPlanNotFound = errors.New("meal plan not found")
)
