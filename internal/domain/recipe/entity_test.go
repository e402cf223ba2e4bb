package recipe

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
)

// RecordTestSuite provides a test suite for the Record entity
type RecordTestSuite struct {
	suite.Suite
	content string
}

// SetupSuite initializes the test suite
func (suite *RecordTestSuite) SetupSuite() {
	suite.content = "## Garlic Bread\n**Ingredients:**\n- bread\n- garlic\n**Instructions:**\n1. Bake for 10 minutes\n"
}

// TestRecordCreation tests record creation scenarios
func (suite *RecordTestSuite) TestRecordCreation() {
	suite.Run("ValidRecord_ShouldCreateSuccessfully", func() {
		// Act
		record, err := NewRecord("user-1", "  garlic bread  ", suite.content)

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), record)
		assert.NotEqual(suite.T(), uuid.Nil, record.ID())
		assert.Equal(suite.T(), "user-1", record.OwnerID())
		assert.Equal(suite.T(), "garlic bread", record.Prompt())
		assert.Equal(suite.T(), "Garlic Bread", record.Title())
		assert.Equal(suite.T(), suite.content, record.Content())
		assert.WithinDuration(suite.T(), time.Now(), record.CreatedAt(), time.Minute)
	})

	suite.Run("EmptyPrompt_ShouldReturnError", func() {
		record, err := NewRecord("user-1", "   ", suite.content)

		assert.Nil(suite.T(), record)
		assert.Equal(suite.T(), ErrEmptyPrompt, err)
	})

	suite.Run("PromptTooLong_ShouldReturnError", func() {
		record, err := NewRecord("user-1", strings.Repeat("é", MaxPromptLength+1), suite.content)

		assert.Nil(suite.T(), record)
		assert.Equal(suite.T(), ErrPromptTooLong, err)
	})

	suite.Run("PromptAtLimit_ShouldBeAccepted", func() {
		_, err := ValidatePrompt(strings.Repeat("é", MaxPromptLength))

		assert.NoError(suite.T(), err)
	})

	suite.Run("MissingOwner_ShouldReturnError", func() {
		_, err := NewRecord("", "soup", suite.content)

		assert.Equal(suite.T(), ErrMissingOwner, err)
	})

	suite.Run("EmptyContent_ShouldReturnError", func() {
		_, err := NewRecord("user-1", "soup", "\n  ")

		assert.Equal(suite.T(), ErrEmptyContent, err)
	})

	suite.Run("ContentWithoutHeading_ShouldUseDefaultTitle", func() {
		record, err := NewRecord("user-1", "soup", "Ingredients:\n- water")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), document.DefaultTitle, record.Title())
	})
}

// TestRecordDocument tests assembly of the stored text
func (suite *RecordTestSuite) TestRecordDocument() {
	suite.Run("StoredContent_ShouldAssembleRecipeView", func() {
		// Arrange
		record := ReconstructRecord(uuid.New(), "user-1", "garlic bread", "Garlic Bread", suite.content, time.Now())

		// Act
		doc := record.Document()

		// Assert
		assert.Equal(suite.T(), "Garlic Bread", doc.Title)
		assert.Equal(suite.T(), []string{"bread", "garlic"}, doc.Sections["Ingredients"])
		assert.Equal(suite.T(), []string{"🔥 Bake for 10 minutes"}, doc.Sections["Instructions"])
		assert.Equal(suite.T(), document.Placeholder(), doc.Sections["Nutritional Information"])
	})
}

func TestRecordTestSuite(t *testing.T) {
	suite.Run(t, new(RecordTestSuite))
}
