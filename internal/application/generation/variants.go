// Package generation holds the table of generation variants and the
// engine every variant runs through: build a prompt, call the text
// generator, assemble the result.
package generation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
)

// Variant names
const (
	VariantRecipe   = "recipe"
	VariantMealPlan = "meal-plan"
)

// ErrUnknownVariant is returned by Lookup for names not in the table.
var ErrUnknownVariant = errors.New("unknown generation variant")

// Variant describes one kind of generated document.
type Variant struct {
	Name string
	// Collection names the stored records in logs and metrics.
	Collection  string
	View        document.View
	BuildPrompt func(req inbound.GenerateRequest) string
}

var variants = map[string]Variant{
	VariantRecipe: {
		Name:       VariantRecipe,
		Collection: "recipes",
		View:       document.RecipeView,
		BuildPrompt: func(req inbound.GenerateRequest) string {
			return RecipePrompt(req.Prompt)
		},
	},
	VariantMealPlan: {
		Name:       VariantMealPlan,
		Collection: "meal_plans",
		View:       document.MealPlanView,
		BuildPrompt: func(req inbound.GenerateRequest) string {
			return MealPlanPrompt(req.Preferences)
		},
	},
}

// Lookup returns the variant registered under name.
func Lookup(name string) (Variant, error) {
	v, ok := variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Variants lists the table sorted by name.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RecipePrompt asks for a single structured recipe.
func RecipePrompt(prompt string) string {
	return "Generate a structured recipe for: " + strings.TrimSpace(prompt)
}

// MealPlanPrompt asks for a plan shaped after the meal-plan view.
func MealPlanPrompt(p mealplan.Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a meal plan with %d meals per day, %d serving(s) each, using these ingredients: %s.\n",
		p.MealsPerDay, p.Servings, p.Ingredients)
	fmt.Fprintf(&b, "Dietary restrictions: %s.\n", p.RestrictionsText())
	b.WriteString("Start with a markdown heading holding the plan title. ")
	b.WriteString("For every day, list the meals under the labels Breakfast, Lunch, Dinner and Snacks, ")
	b.WriteString("each followed by a colon and a short description of the dish.")
	return b.String()
}
