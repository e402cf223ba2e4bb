package document

import "strings"

// MealPlanTitle is the fallback title of the meal-plan view.
const MealPlanTitle = "Your Meal Plan"

// View names a set of section labels and how to present them.
type View struct {
	Name          string
	Labels        []string
	FallbackTitle string
	// Annotated lists the labels whose items receive cooking-verb symbols.
	Annotated []string
}

var (
	// RecipeView is the layout of a single generated recipe.
	RecipeView = View{
		Name:          "recipe",
		Labels:        []string{"Ingredients", "Instructions", "Nutritional Information"},
		FallbackTitle: DefaultTitle,
		Annotated:     []string{"Instructions"},
	}

	// MealPlanView is the layout of a generated meal plan.
	MealPlanView = View{
		Name:          "meal-plan",
		Labels:        []string{"Breakfast", "Lunch", "Dinner", "Snacks"},
		FallbackTitle: MealPlanTitle,
	}
)

// Views returns every known view.
func Views() []View {
	return []View{RecipeView, MealPlanView}
}

// ViewByName looks a view up by its name.
func ViewByName(name string) (View, bool) {
	for _, v := range Views() {
		if strings.EqualFold(v.Name, name) {
			return v, true
		}
	}
	return View{}, false
}

func (v View) annotates(label string) bool {
	for _, a := range v.Annotated {
		if strings.EqualFold(a, label) {
			return true
		}
	}
	return false
}

// Assemble extracts the title and every label of the view from raw.
// The result always holds an entry for each label.
func (v View) Assemble(raw string) ParsedDocument {
	fallback := v.FallbackTitle
	if fallback == "" {
		fallback = DefaultTitle
	}

	doc := ParsedDocument{
		Title:    ExtractTitleOr(raw, fallback),
		Sections: make(map[string][]string, len(v.Labels)),
	}
	for _, label := range v.Labels {
		opts := []SectionOption{WithSiblings(v.Labels...)}
		if v.annotates(label) {
			opts = append(opts, WithAnnotation())
		}
		doc.Sections[label] = ExtractSection(raw, label, opts...)
	}
	return doc
}

// Assemble builds a document for an ad-hoc list of labels using the
// default title fallback and no annotation.
func Assemble(raw string, labels ...string) ParsedDocument {
	return View{Labels: labels, FallbackTitle: DefaultTitle}.Assemble(raw)
}
