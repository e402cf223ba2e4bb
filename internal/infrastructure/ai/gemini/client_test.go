package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
)

// GeminiClientTestSuite runs the client against a fake Gemini endpoint
type GeminiClientTestSuite struct {
	suite.Suite
	handler http.HandlerFunc
	server  *httptest.Server
	client  *Client
}

func (suite *GeminiClientTestSuite) SetupSubTest() {
	suite.handler = nil
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.handler(w, r)
	}))
	suite.client = NewClient(Config{
		APIKey:  "test-key",
		BaseURL: suite.server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func (suite *GeminiClientTestSuite) TearDownSubTest() {
	suite.server.Close()
}

func (suite *GeminiClientTestSuite) respond(status int, body string) {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (suite *GeminiClientTestSuite) TestGenerate() {
	suite.Run("Success_ShouldJoinFirstCandidateParts", func() {
		// Arrange
		var received GenerateContentRequest
		var path, query, key string
		suite.handler = func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			query = r.URL.RawQuery
			key = r.Header.Get("x-goog-api-key")
			_ = json.NewDecoder(r.Body).Decode(&received)
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"## Soup\n"},{"text":"**Ingredients:**"}]}},{"content":{"parts":[{"text":"ignored"}]}}]}`))
		}

		// Act
		text, err := suite.client.Generate(context.Background(), "Generate a structured recipe for: soup")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "## Soup\n**Ingredients:**", text)
		assert.Equal(suite.T(), "/v1/models/gemini-1.5-flash:generateContent", path)
		assert.Equal(suite.T(), "test-key", key)
		assert.Empty(suite.T(), query)
		require.Len(suite.T(), received.Contents, 1)
		assert.Equal(suite.T(), "Generate a structured recipe for: soup", received.Contents[0].Parts[0].Text)
	})

	suite.Run("NoCandidates_ShouldBeEmptyGeneration", func() {
		suite.respond(http.StatusOK, `{"candidates":[]}`)

		_, err := suite.client.Generate(context.Background(), "anything")

		assert.ErrorIs(suite.T(), err, outbound.ErrEmptyGeneration)
	})

	suite.Run("Forbidden_ShouldBeUpstreamAuth", func() {
		suite.respond(http.StatusForbidden, `{"error":{"message":"API key not valid"}}`)

		_, err := suite.client.Generate(context.Background(), "anything")

		assert.ErrorIs(suite.T(), err, outbound.ErrUpstreamAuth)
	})

	suite.Run("TooManyRequests_ShouldBeRateLimited", func() {
		suite.respond(http.StatusTooManyRequests, `{}`)

		_, err := suite.client.Generate(context.Background(), "anything")

		assert.ErrorIs(suite.T(), err, outbound.ErrUpstreamRateLimited)
	})

	suite.Run("BadRequest_ShouldCarryStatusAndBody", func() {
		suite.respond(http.StatusBadRequest, `{"error":{"message":"bad prompt"}}`)

		_, err := suite.client.Generate(context.Background(), "anything")

		var upstream *outbound.UpstreamError
		require.True(suite.T(), errors.As(err, &upstream))
		assert.Equal(suite.T(), http.StatusBadRequest, upstream.Status)
		assert.True(suite.T(), upstream.ClientError())
		assert.Contains(suite.T(), upstream.Body, "bad prompt")
	})
}

func (suite *GeminiClientTestSuite) TestPing() {
	suite.Run("ModelReachable_ShouldSucceed", func() {
		var path, key string
		suite.handler = func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			key = r.Header.Get("x-goog-api-key")
			_, _ = w.Write([]byte(`{"name":"models/gemini-1.5-flash"}`))
		}

		require.NoError(suite.T(), suite.client.Ping(context.Background()))
		assert.Equal(suite.T(), "/v1/models/gemini-1.5-flash", path)
		assert.Equal(suite.T(), "test-key", key)
	})

	suite.Run("ServerError_ShouldFail", func() {
		suite.respond(http.StatusInternalServerError, `oops`)

		assert.Error(suite.T(), suite.client.Ping(context.Background()))
	})
}

func TestGeminiClientTestSuite(t *testing.T) {
	suite.Run(t, new(GeminiClientTestSuite))
}
