package consistency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []observation
}

type observation struct {
	collection string
	attempts   int
	found      bool
}

func (r *recordingObserver) ObserveRead(collection string, attempts int, found bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, observation{collection, attempts, found})
}

// FetchTestSuite covers the retrying read
type FetchTestSuite struct {
	suite.Suite
	policy Policy
}

func (suite *FetchTestSuite) SetupTest() {
	suite.policy = Policy{MaxAttempts: 3, Delay: time.Millisecond}
}

// visibleAfter returns a query that finds "record" from the given attempt on.
func visibleAfter(attempt int, calls *int) Query[string] {
	return func(ctx context.Context) (string, bool, error) {
		*calls++
		if *calls >= attempt {
			return "record", true, nil
		}
		return "", false, nil
	}
}

func (suite *FetchTestSuite) TestFetch() {
	suite.Run("ImmediatelyVisible_ShouldReturnAfterOneAttempt", func() {
		// Arrange
		calls := 0
		observer := &recordingObserver{}

		// Act
		value, err := Fetch(context.Background(), suite.policy, visibleAfter(1, &calls),
			WithCollection("recipes"), WithObserver(observer))

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "record", value)
		assert.Equal(suite.T(), 1, calls)
		assert.Equal(suite.T(), []observation{{"recipes", 1, true}}, observer.calls)
	})

	suite.Run("VisibleOnLastAttempt_ShouldSucceed", func() {
		calls := 0

		value, err := Fetch(context.Background(), suite.policy, visibleAfter(3, &calls))

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "record", value)
		assert.Equal(suite.T(), 3, calls)
	})

	suite.Run("NeverVisible_ShouldReturnExhausted", func() {
		// Arrange
		calls := 0
		observer := &recordingObserver{}

		// Act
		value, err := Fetch(context.Background(), suite.policy, visibleAfter(10, &calls),
			WithCollection("meal_plans"), WithObserver(observer))

		// Assert
		require.Error(suite.T(), err)
		assert.Empty(suite.T(), value)
		assert.Equal(suite.T(), 3, calls)
		assert.True(suite.T(), IsExhausted(err))
		assert.False(suite.T(), errors.Is(err, ErrNotFound))

		var exhausted *ExhaustedError
		require.ErrorAs(suite.T(), err, &exhausted)
		assert.Equal(suite.T(), 3, exhausted.Attempts)
		assert.Equal(suite.T(), []observation{{"meal_plans", 3, false}}, observer.calls)
	})

	suite.Run("SingleAttemptMiss_ShouldReturnNotFound", func() {
		calls := 0

		_, err := Fetch(context.Background(), Single(), visibleAfter(2, &calls))

		assert.ErrorIs(suite.T(), err, ErrNotFound)
		assert.False(suite.T(), IsExhausted(err))
		assert.Equal(suite.T(), 1, calls)
	})

	suite.Run("QueryError_ShouldNotRetry", func() {
		// Arrange
		calls := 0
		boom := errors.New("permission denied")
		query := func(ctx context.Context) (string, bool, error) {
			calls++
			return "", false, boom
		}

		// Act
		_, err := Fetch(context.Background(), suite.policy, query)

		// Assert
		assert.ErrorIs(suite.T(), err, boom)
		assert.Equal(suite.T(), 1, calls)
	})

	suite.Run("CancelledContext_ShouldStopWaiting", func() {
		// Arrange
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		query := func(ctx context.Context) (string, bool, error) {
			calls++
			cancel()
			return "", false, nil
		}

		// Act
		_, err := Fetch(ctx, Policy{MaxAttempts: 5, Delay: time.Hour}, query)

		// Assert
		assert.ErrorIs(suite.T(), err, context.Canceled)
		assert.Equal(suite.T(), 1, calls)
	})

	suite.Run("InvalidPolicy_ShouldBeNormalized", func() {
		calls := 0

		_, err := Fetch(context.Background(), Policy{MaxAttempts: 0, Delay: -time.Second}, visibleAfter(5, &calls))

		assert.ErrorIs(suite.T(), err, ErrNotFound)
		assert.Equal(suite.T(), 1, calls)
	})
}

func (suite *FetchTestSuite) TestDefaultPolicy() {
	policy := DefaultPolicy()

	assert.Equal(suite.T(), 3, policy.MaxAttempts)
	assert.Equal(suite.T(), time.Second, policy.Delay)
}

func TestFetchTestSuite(t *testing.T) {
	suite.Run(t, new(FetchTestSuite))
}
