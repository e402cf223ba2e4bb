// Package static provides a canned text generator for offline development
// and tests. It never leaves the process.
package static

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ProviderName identifies the canned generator in logs and metrics
const ProviderName = "static"

const (
	recipePrefix   = "Generate a structured recipe for:"
	mealPlanPrefix = "Create a meal plan"
)

// Generator implements outbound.TextGenerator with fixed documents
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a canned generator
func NewGenerator(logger *zap.Logger) *Generator {
	logger.Warn("Using the static text generator, responses are canned")
	return &Generator{logger: logger.Named("static-generator")}
}

// Name implements outbound.TextGenerator
func (g *Generator) Name() string {
	return ProviderName
}

// Ping always succeeds
func (g *Generator) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Generate returns a meal plan for meal-plan prompts and a recipe named
// after the request otherwise.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if strings.HasPrefix(prompt, mealPlanPrefix) {
		return MealPlan, nil
	}

	dish := strings.TrimSpace(strings.TrimPrefix(prompt, recipePrefix))
	if dish == "" {
		dish = "House Salad"
	}
	g.logger.Debug("Serving canned recipe", zap.String("dish", dish))
	return Recipe(dish), nil
}

// Recipe returns a complete recipe document titled after dish
func Recipe(dish string) string {
	return fmt.Sprintf(`## %s

**Ingredients:**
* 2 cups vegetable stock
* 1 onion, diced
* 2 cloves garlic, minced
* Salt and pepper to taste

**Instructions:**
1. Chop the onion and garlic.
2. Heat a little oil and saute the onion until soft.
3. Add the stock and simmer for 15 minutes.
4. Season and serve warm.

**Nutritional Information (per serving):**
* Calories: 220
* Protein: 6g
* Carbohydrates: 30g
* Fat: 8g
`, titleCase(dish))
}

// MealPlan is a two-day plan covering every meal label
const MealPlan = `# Two-Day Balanced Meal Plan

## Day 1
* **Breakfast:** Oatmeal with berries and almonds
* **Lunch:** Chickpea salad with cucumber and lemon dressing
* **Dinner:** Baked salmon with roasted vegetables
* **Snacks:** Greek yogurt with honey

## Day 2
* **Breakfast:** Spinach and mushroom omelette
* **Lunch:** Quinoa bowl with black beans and avocado
* **Dinner:** Vegetable stir-fry with tofu
* **Snacks:** Apple slices with peanut butter
`

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
