package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nutrino-ai/nutrino/internal/domain/mealplan"
	"github.com/nutrino-ai/nutrino/internal/domain/recipe"
	"github.com/nutrino-ai/nutrino/internal/domain/user"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
	"github.com/nutrino-ai/nutrino/test/testutils"
)

// RepositoryTestSuite runs the GORM repositories against in-memory sqlite
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	factory *testutils.GenerationFactory
	users   outbound.UserRepository
	recipes outbound.RecipeRecordRepository
	plans   outbound.MealPlanRepository
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	suite.factory = testutils.NewGenerationFactory(time.Now().UnixNano())
}

func (suite *RepositoryTestSuite) SetupTest() {
	db := testutils.NewTestDB(suite.T(), Models()...)
	suite.users = NewUserRepository(db)
	suite.recipes = NewRecipeRecordRepository(db)
	suite.plans = NewMealPlanRepository(db)
}

func (suite *RepositoryTestSuite) TestUserRepository() {
	suite.Run("Ensure_ShouldCreateThenRefreshWithoutTouchingRank", func() {
		suite.SetupTest()

		// Arrange
		u, err := user.NewUser("uid-1", "Cook@Example.com", "Cook")
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), suite.users.Ensure(suite.ctx, u))
		require.NoError(suite.T(), suite.users.UpdateRank(suite.ctx, "uid-1", user.RankProUser))
		require.NoError(suite.T(), suite.users.UpdateAvatar(suite.ctx, "uid-1", user.AvatarURL("seed")))

		// Act
		renamed, err := user.NewUser("uid-1", "", "Chef")
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), suite.users.Ensure(suite.ctx, renamed))
		found, err := suite.users.FindByID(suite.ctx, "uid-1")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "cook@example.com", found.Email())
		assert.Equal(suite.T(), "Chef", found.Name())
		assert.Equal(suite.T(), user.RankProUser, found.Rank())
		assert.Equal(suite.T(), user.AvatarURL("seed"), found.AvatarURL())
	})

	suite.Run("UnknownUser_ShouldReturnNotFound", func() {
		suite.SetupTest()

		_, err := suite.users.FindByID(suite.ctx, "nobody")
		assert.ErrorIs(suite.T(), err, user.ErrUserNotFound)

		err = suite.users.UpdateRank(suite.ctx, "nobody", user.RankMasterChef)
		assert.ErrorIs(suite.T(), err, user.ErrUserNotFound)
	})
}

func (suite *RepositoryTestSuite) TestRecipeRecordRepository() {
	suite.Run("CreateAndFind_ShouldRoundTripRecord", func() {
		suite.SetupTest()

		record := suite.factory.Record("owner-1")
		require.NoError(suite.T(), suite.recipes.Create(suite.ctx, record))

		found, err := suite.recipes.FindByID(suite.ctx, record.ID())

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), record.ID(), found.ID())
		assert.Equal(suite.T(), record.Prompt(), found.Prompt())
		assert.Equal(suite.T(), record.Title(), found.Title())
		assert.Equal(suite.T(), record.Content(), found.Content())
		assert.WithinDuration(suite.T(), record.CreatedAt(), found.CreatedAt(), time.Millisecond)
	})

	suite.Run("MissingRecord_ShouldReturnNotFound", func() {
		suite.SetupTest()

		_, err := suite.recipes.FindByID(suite.ctx, uuid.New())
		assert.ErrorIs(suite.T(), err, recipe.ErrRecordNotFound)

		_, err = suite.recipes.FindLatestByOwner(suite.ctx, "owner-1")
		assert.ErrorIs(suite.T(), err, recipe.ErrRecordNotFound)
	})

	suite.Run("Latest_ShouldBeNewestOfOwner", func() {
		suite.SetupTest()

		// Arrange
		base := time.Now().UTC().Add(-time.Hour)
		older := recipe.ReconstructRecord(uuid.New(), "owner-1", "old", "Old", "## Old", base)
		newer := recipe.ReconstructRecord(uuid.New(), "owner-1", "new", "New", "## New", base.Add(time.Minute))
		other := recipe.ReconstructRecord(uuid.New(), "owner-2", "other", "Other", "## Other", base.Add(time.Hour))
		for _, r := range []*recipe.Record{newer, older, other} {
			require.NoError(suite.T(), suite.recipes.Create(suite.ctx, r))
		}

		// Act
		latest, err := suite.recipes.FindLatestByOwner(suite.ctx, "owner-1")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), newer.ID(), latest.ID())
	})

	suite.Run("Page_ShouldBeNewestFirstWithTotal", func() {
		suite.SetupTest()

		base := time.Now().UTC().Add(-time.Hour)
		ids := make([]uuid.UUID, 0, 5)
		for i := 0; i < 5; i++ {
			r := recipe.ReconstructRecord(uuid.New(), "owner-1", "p", "T", "## T", base.Add(time.Duration(i)*time.Minute))
			require.NoError(suite.T(), suite.recipes.Create(suite.ctx, r))
			ids = append(ids, r.ID())
		}

		page, total, err := suite.recipes.FindByOwner(suite.ctx, "owner-1", 2, 2)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), int64(5), total)
		require.Len(suite.T(), page, 2)
		assert.Equal(suite.T(), ids[2], page[0].ID())
		assert.Equal(suite.T(), ids[1], page[1].ID())

		count, err := suite.recipes.CountByOwner(suite.ctx, "owner-1")
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), int64(5), count)
	})
}

func (suite *RepositoryTestSuite) TestMealPlanRepository() {
	suite.Run("CreateAndFind_ShouldKeepPreferences", func() {
		suite.SetupTest()

		plan := suite.factory.Plan("owner-1")
		require.NoError(suite.T(), suite.plans.Create(suite.ctx, plan))

		found, err := suite.plans.FindByID(suite.ctx, plan.ID())

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), plan.Preferences(), found.Preferences())
		assert.Equal(suite.T(), plan.Title(), found.Title())
	})

	suite.Run("DeleteByOwner_ShouldOnlyRemoveOwnersPlans", func() {
		suite.SetupTest()

		// Arrange
		for i := 0; i < 2; i++ {
			require.NoError(suite.T(), suite.plans.Create(suite.ctx, suite.factory.Plan("owner-1")))
		}
		kept := suite.factory.Plan("owner-2")
		require.NoError(suite.T(), suite.plans.Create(suite.ctx, kept))

		// Act
		deleted, err := suite.plans.DeleteByOwner(suite.ctx, "owner-1")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), int64(2), deleted)
		_, err = suite.plans.FindLatestByOwner(suite.ctx, "owner-1")
		assert.ErrorIs(suite.T(), err, mealplan.ErrPlanNotFound)
		count, err := suite.plans.CountByOwner(suite.ctx, "owner-2")
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), int64(1), count)
	})
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
