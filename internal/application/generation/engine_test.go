package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/test/testutils"
)

type placeholderCall struct {
	view   string
	labels []string
}

type recordingMetrics struct {
	statuses     []string
	placeholders []placeholderCall
}

func (m *recordingMetrics) GenerationRequest(variant, provider, status string, duration time.Duration) {
	m.statuses = append(m.statuses, status)
}

func (m *recordingMetrics) PlaceholderSections(view string, labels []string) {
	m.placeholders = append(m.placeholders, placeholderCall{view: view, labels: labels})
}

// EngineTestSuite covers generation and assembly metrics
type EngineTestSuite struct {
	suite.Suite
	generator *testutils.MockTextGenerator
	metrics   *recordingMetrics
	engine    *Engine
	recipe    Variant
}

func (suite *EngineTestSuite) SetupTest() {
	suite.generator = &testutils.MockTextGenerator{}
	suite.metrics = &recordingMetrics{}
	suite.engine = NewEngine(suite.generator, suite.metrics, zap.NewNop())

	variant, err := Lookup(VariantRecipe)
	require.NoError(suite.T(), err)
	suite.recipe = variant
}

func (suite *EngineTestSuite) TestGenerate() {
	suite.Run("MissingSections_ShouldBeCountedOnce", func() {
		suite.SetupTest()

		// Arrange
		raw := "## Toast\n**Ingredients:**\n- bread\n**Instructions:**\n1. Toast the bread\n"
		suite.generator.On("Generate", mock.Anything, mock.Anything).Return(raw, nil).Once()

		// Act
		text, err := suite.engine.Generate(context.Background(), suite.recipe, inbound.GenerateRequest{Prompt: "toast"})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), raw, text)
		assert.Equal(suite.T(), []string{"success"}, suite.metrics.statuses)
		require.Len(suite.T(), suite.metrics.placeholders, 1)
		assert.Equal(suite.T(), []string{"Nutritional Information"}, suite.metrics.placeholders[0].labels)
	})

	suite.Run("CompleteDocument_ShouldRecordNoPlaceholders", func() {
		suite.SetupTest()

		raw := "## Toast\nIngredients:\n- bread\nInstructions:\n1. Toast\nNutritional Information:\n- Calories: 90\n"
		suite.generator.On("Generate", mock.Anything, mock.Anything).Return(raw, nil).Once()

		_, err := suite.engine.Generate(context.Background(), suite.recipe, inbound.GenerateRequest{Prompt: "toast"})

		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), suite.metrics.placeholders)
	})

	suite.Run("GeneratorFailure_ShouldNotAssemble", func() {
		suite.SetupTest()

		suite.generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()

		_, err := suite.engine.Generate(context.Background(), suite.recipe, inbound.GenerateRequest{Prompt: "toast"})

		assert.Error(suite.T(), err)
		assert.Empty(suite.T(), suite.metrics.placeholders)
	})
}

func (suite *EngineTestSuite) TestAssemble() {
	suite.Run("RepeatedReads_ShouldNotTouchMetrics", func() {
		suite.SetupTest()

		for i := 0; i < 3; i++ {
			doc := suite.engine.Assemble(suite.recipe, "## Toast\n**Ingredients:**\n- bread\n")
			assert.Equal(suite.T(), "Toast", doc.Title)
		}

		assert.Empty(suite.T(), suite.metrics.placeholders)
		assert.Empty(suite.T(), suite.metrics.statuses)
	})
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
