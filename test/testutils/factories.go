// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/domain/recipe"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
)

// GenerationFactory creates identities, requests and generated documents
type GenerationFactory struct {
	faker *gofakeit.Faker
}

// NewGenerationFactory creates a new factory with seeded faker
func NewGenerationFactory(seed int64) *GenerationFactory {
	return &GenerationFactory{
		faker: gofakeit.New(seed),
	}
}

// Identity returns an authenticated caller
func (f *GenerationFactory) Identity() inbound.Identity {
	return inbound.Identity{
		UserID:    f.faker.UUID(),
		Email:     strings.ToLower(f.faker.Email()),
		Name:      f.faker.Name(),
		TokenID:   uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// Prompt returns a recipe request such as "spicy lentil soup"
func (f *GenerationFactory) Prompt() string {
	return fmt.Sprintf("%s %s", f.faker.AdjectiveDescriptive(), f.faker.Lunch())
}

// Preferences returns valid meal-plan preferences
func (f *GenerationFactory) Preferences() mealplan.Preferences {
	return mealplan.Preferences{
		Ingredients:         strings.Join([]string{f.faker.Vegetable(), f.faker.Fruit(), f.faker.Vegetable()}, ", "),
		MealsPerDay:         f.faker.Number(1, mealplan.MaxMealsPerDay),
		Servings:            f.faker.Number(1, 4),
		DietaryRestrictions: []string{f.faker.RandomString([]string{"vegan", "vegetarian", "gluten-free", "dairy-free"})},
	}
}

// RecipeDocument returns generated recipe text with every recipe section
func (f *GenerationFactory) RecipeDocument(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	b.WriteString("**Ingredients:**\n")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "- %d cups %s\n", i+1, strings.ToLower(f.faker.Vegetable()))
	}
	b.WriteString("\n**Instructions:**\n")
	b.WriteString("1. Chop the vegetables.\n")
	b.WriteString("2. Simmer for 20 minutes.\n")
	b.WriteString("3. Serve warm.\n")
	b.WriteString("\n**Nutritional Information (per serving):**\n")
	fmt.Fprintf(&b, "- Calories: %d\n", f.faker.Number(150, 900))
	return b.String()
}

// MealPlanDocument returns generated meal-plan text covering the given days
func (f *GenerationFactory) MealPlanDocument(days int) string {
	var b strings.Builder
	b.WriteString("# Weekly Meal Plan\n")
	for day := 1; day <= days; day++ {
		fmt.Fprintf(&b, "## Day %d\n", day)
		fmt.Fprintf(&b, "* **Breakfast:** %s\n", f.faker.Breakfast())
		fmt.Fprintf(&b, "* **Lunch:** %s\n", f.faker.Lunch())
		fmt.Fprintf(&b, "* **Dinner:** %s\n", f.faker.Dinner())
	}
	return b.String()
}

// Record returns a stored recipe record for owner
func (f *GenerationFactory) Record(ownerID string) *recipe.Record {
	record, err := recipe.NewRecord(ownerID, f.Prompt(), f.RecipeDocument(f.faker.Lunch()))
	if err != nil {
		panic(err)
	}
	return record
}

// Plan returns a stored meal plan for owner
func (f *GenerationFactory) Plan(ownerID string) *mealplan.Plan {
	plan, err := mealplan.NewPlan(ownerID, f.Preferences(), f.MealPlanDocument(2))
	if err != nil {
		panic(err)
	}
	return plan
}
