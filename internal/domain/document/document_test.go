package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DocumentTestSuite covers title extraction, sectioning, cleaning and assembly
type DocumentTestSuite struct {
	suite.Suite
}

const sampleRecipe = "## Title\n**Ingredients:**\n- a\n- b\n**Instructions:**\n1. step one\n"

func (suite *DocumentTestSuite) TestExtractTitle() {
	suite.Run("FirstHeading_ShouldBeTitle", func() {
		assert.Equal(suite.T(), "Title", ExtractTitle(sampleRecipe))
	})

	suite.Run("BoldHeading_ShouldStripMarkers", func() {
		assert.Equal(suite.T(), "Lemon Pasta", ExtractTitle("# **Lemon Pasta**\nbody"))
	})

	suite.Run("ClosingHashes_ShouldBeTrimmed", func() {
		assert.Equal(suite.T(), "Soup", ExtractTitle("intro line\n### Soup ###\n## Later"))
	})

	suite.Run("NoHeading_ShouldFallBack", func() {
		assert.Equal(suite.T(), DefaultTitle, ExtractTitle("just text\n- item"))
		assert.Equal(suite.T(), DefaultTitle, ExtractTitle(""))
	})

	suite.Run("EmptyHeading_ShouldUseNextHeading", func() {
		assert.Equal(suite.T(), "Real", ExtractTitle("# ****\n## Real"))
	})

	suite.Run("CustomFallback_ShouldBeReturned", func() {
		assert.Equal(suite.T(), MealPlanTitle, ExtractTitleOr("no heading", MealPlanTitle))
	})
}

func (suite *DocumentTestSuite) TestCleanLine() {
	cases := map[string]string{
		"- a":                      "a",
		"**1.** Mix flour":         "Mix flour",
		"- 🥕 2 carrots":            "🥕 2 carrots",
		"1.5 cups sugar":           "1.5 cups sugar",
		"  * - nested bullet ":     "nested bullet",
		"• salt":                   "salt",
		"12) Whisk the eggs":       "Whisk the eggs",
		"**Calories:** 400 kcal":   "Calories: 400 kcal",
		"*** stray markers":        "stray markers",
		"-5°C overnight":           "-5°C overnight",
		"":                         "",
	}

	suite.Run("KnownInputs_ShouldCleanAsExpected", func() {
		for in, want := range cases {
			assert.Equal(suite.T(), want, CleanLine(in), "input %q", in)
		}
	})

	suite.Run("CleanLine_ShouldBeIdempotent", func() {
		for in := range cases {
			once := CleanLine(in)
			assert.Equal(suite.T(), once, CleanLine(once), "input %q", in)
		}
	})
}

func (suite *DocumentTestSuite) TestAnnotate() {
	suite.Run("CookingVerb_ShouldReceiveSymbol", func() {
		assert.Equal(suite.T(), "🔥 Preheat the oven", Annotate("Preheat the oven"))
		assert.Equal(suite.T(), "Then 🥄 stir and 🍽️ serve", Annotate("Then stir and serve"))
	})

	suite.Run("PartialWord_ShouldNotMatch", func() {
		assert.Equal(suite.T(), "Add the mixture", Annotate("Add the mixture"))
	})

	suite.Run("SecondPass_ShouldNotDoubleAnnotate", func() {
		once := Annotate("Boil water, then chop onions")
		assert.Equal(suite.T(), once, Annotate(once))
	})

	suite.Run("Annotation_ShouldOnlyAddText", func() {
		original := "Bake for 20 minutes"
		annotated := Annotate(original)
		assert.Equal(suite.T(), original, strings.ReplaceAll(annotated, "🔥 ", ""))
	})
}

func (suite *DocumentTestSuite) TestExtractSection() {
	suite.Run("RoundTripSample_ShouldSplitSections", func() {
		assert.Equal(suite.T(), []string{"a", "b"}, ExtractSection(sampleRecipe, "Ingredients"))
		assert.Equal(suite.T(), []string{"step one"}, ExtractSection(sampleRecipe, "Instructions"))
	})

	suite.Run("MissingLabel_ShouldReturnPlaceholder", func() {
		items := ExtractSection(sampleRecipe, "Nutritional Information")
		assert.Equal(suite.T(), []string{NoDataPlaceholder}, items)
	})

	suite.Run("LastSection_ShouldRunToEndOfDocument", func() {
		raw := "Ingredients:\n- x\nInstructions:\n1. a\n2. b\n\n- enjoy while warm"
		assert.Equal(suite.T(), []string{"a", "b", "enjoy while warm"}, ExtractSection(raw, "Instructions"))
	})

	suite.Run("CapitalizedLine_ShouldEndSection", func() {
		assert.Equal(suite.T(), []string{"a"}, ExtractSection("**Ingredients:**\n- a\nServes 4 people\n", "Ingredients"))
		assert.Equal(suite.T(), []string{"a"}, ExtractSection("Instructions:\n1. a\n\n**Enjoy** your meal!", "Instructions"))
	})

	suite.Run("LowercaseContinuation_ShouldStayInSection", func() {
		raw := "Instructions:\n1. Fold the batter\n   gently until smooth\n"
		assert.Equal(suite.T(), []string{"Fold the batter", "gently until smooth"}, ExtractSection(raw, "Instructions"))
	})

	suite.Run("LabelWordInItem_ShouldNotStartSection", func() {
		raw := "**Ingredients:**\n- flour\n**Tips:**\n- Ingredients can be prepped ahead.\n"
		assert.Equal(suite.T(), []string{"flour"}, ExtractSection(raw, "Ingredients"))

		doc := MealPlanView.Assemble("**Ingredients:**\n- 2 Lunch meat slices\n- Dinner rolls\n")
		assert.Equal(suite.T(), Placeholder(), doc.Sections["Dinner"])
		assert.Equal(suite.T(), Placeholder(), doc.Sections["Lunch"])
	})

	suite.Run("LabelSeparators_ShouldBeAccepted", func() {
		assert.Equal(suite.T(), []string{"oats"}, ExtractSection("Breakfast - oats", "Breakfast"))
		assert.Equal(suite.T(), []string{"oats"}, ExtractSection("**Breakfast**: oats", "Breakfast"))
		assert.Equal(suite.T(), []string{"oats"}, ExtractSection("### Breakfast\n- oats", "Breakfast"))
		assert.Equal(suite.T(), []string{"oats"}, ExtractSection("*Breakfast*\n- oats", "Breakfast"))
	})

	suite.Run("CaseAndParenthetical_ShouldBeTolerated", func() {
		raw := "NUTRITIONAL INFORMATION (per serving):\n- Calories: 400\n- Protein: 20g"
		items := ExtractSection(raw, "Nutritional Information")
		assert.Equal(suite.T(), []string{"Calories: 400", "Protein: 20g"}, items)
	})

	suite.Run("InlineContent_ShouldBeCaptured", func() {
		raw := "**Ingredients:** flour, sugar\n**Instructions:** mix"
		assert.Equal(suite.T(), []string{"flour, sugar"}, ExtractSection(raw, "Ingredients"))
		assert.Equal(suite.T(), []string{"mix"}, ExtractSection(raw, "Instructions"))
	})

	suite.Run("EmptySection_ShouldReturnPlaceholder", func() {
		raw := "Ingredients:\n\nInstructions:\n- x"
		assert.Equal(suite.T(), Placeholder(), ExtractSection(raw, "Ingredients"))
	})

	suite.Run("CarriageReturns_ShouldBeHandled", func() {
		raw := "## Toast\r\n**Ingredients:**\r\n- bread\r\n- butter\r\n"
		assert.Equal(suite.T(), []string{"bread", "butter"}, ExtractSection(raw, "Ingredients"))
		assert.Equal(suite.T(), "Toast", ExtractTitle(raw))
	})

	suite.Run("SingularLabel_ShouldMatchPluralRequest", func() {
		assert.Equal(suite.T(), []string{"apple"}, ExtractSection("Snack: apple", "Snacks"))
	})

	suite.Run("EmptyInput_ShouldReturnPlaceholder", func() {
		assert.Equal(suite.T(), Placeholder(), ExtractSection("", "Ingredients"))
		assert.Equal(suite.T(), Placeholder(), ExtractSection("   \n\t", "Ingredients"))
		assert.Equal(suite.T(), Placeholder(), ExtractSection(sampleRecipe, "  "))
	})

	suite.Run("Annotation_ShouldApplyWhenRequested", func() {
		raw := "Instructions:\n1. Preheat oven to 180C."
		assert.Equal(suite.T(), []string{"🔥 Preheat oven to 180C."}, ExtractSection(raw, "Instructions", WithAnnotation()))
		assert.Equal(suite.T(), []string{"Preheat oven to 180C."}, ExtractSection(raw, "Instructions"))
	})
}

func (suite *DocumentTestSuite) TestAssemble() {
	suite.Run("RecipeView_ShouldPopulateEveryLabel", func() {
		// Act
		doc := RecipeView.Assemble(sampleRecipe)

		// Assert
		assert.Equal(suite.T(), "Title", doc.Title)
		require.Len(suite.T(), doc.Sections, 3)
		assert.Equal(suite.T(), []string{"a", "b"}, doc.Sections["Ingredients"])
		assert.Equal(suite.T(), []string{"step one"}, doc.Sections["Instructions"])
		assert.Equal(suite.T(), Placeholder(), doc.Sections["Nutritional Information"])
		assert.Equal(suite.T(), []string{"Nutritional Information"}, doc.MissingSections())
		assert.False(suite.T(), doc.IsPlaceholderOnly())
	})

	suite.Run("MealPlanAcrossDays_ShouldCollectEveryOccurrence", func() {
		// Arrange
		raw := strings.Join([]string{
			"# Weekly Plan",
			"## Day 1",
			"* **Breakfast:** Oatmeal with berries",
			"* **Lunch:** Quinoa salad",
			"* **Dinner:** Grilled salmon",
			"## Day 2",
			"* **Breakfast:** Greek yogurt",
			"* **Lunch:** Lentil soup",
			"* **Dinner:** Veggie stir fry",
		}, "\n")

		// Act
		doc := MealPlanView.Assemble(raw)

		// Assert
		assert.Equal(suite.T(), "Weekly Plan", doc.Title)
		assert.Equal(suite.T(), []string{"Oatmeal with berries", "Greek yogurt"}, doc.Sections["Breakfast"])
		assert.Equal(suite.T(), []string{"Quinoa salad", "Lentil soup"}, doc.Sections["Lunch"])
		assert.Equal(suite.T(), []string{"Grilled salmon", "Veggie stir fry"}, doc.Sections["Dinner"])
		assert.Equal(suite.T(), Placeholder(), doc.Sections["Snacks"])
	})

	suite.Run("BlankDocument_ShouldFallBackEverywhere", func() {
		doc := MealPlanView.Assemble("  \n ")

		assert.Equal(suite.T(), MealPlanTitle, doc.Title)
		assert.Len(suite.T(), doc.Sections, 4)
		assert.True(suite.T(), doc.IsPlaceholderOnly())
	})

	suite.Run("AdHocLabels_ShouldUseDefaultTitle", func() {
		doc := Assemble("Tips:\n- rest the dough", "Tips")

		assert.Equal(suite.T(), DefaultTitle, doc.Title)
		assert.Equal(suite.T(), []string{"rest the dough"}, doc.Sections["Tips"])
	})

	suite.Run("ViewLookup_ShouldBeCaseInsensitive", func() {
		view, ok := ViewByName("Meal-Plan")
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), MealPlanView.Name, view.Name)

		_, ok = ViewByName("cocktail")
		assert.False(suite.T(), ok)
	})
}

func TestDocumentTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentTestSuite))
}
