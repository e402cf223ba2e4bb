package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/application/generation"
	"github.com/nutrino-ai/nutrino/internal/application/mealplan"
	"github.com/nutrino-ai/nutrino/internal/application/profile"
	"github.com/nutrino-ai/nutrino/internal/application/recipe"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/ai/static"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/config"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/http/handlers"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/http/middleware"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/monitoring"
	gormrepo "github.com/nutrino-ai/nutrino/internal/infrastructure/persistence/gorm"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/persistence/memory"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/security"
	"github.com/nutrino-ai/nutrino/pkg/consistency"
	"github.com/nutrino-ai/nutrino/pkg/healthcheck"
	"github.com/nutrino-ai/nutrino/test/testutils"
)

// RouterTestSuite drives the full router over sqlite and the static generator
type RouterTestSuite struct {
	suite.Suite
	router     *gin.Engine
	auth       *security.AuthService
	cache      *memory.CacheRepository
	assertions *testutils.HTTPAssertions
	token      string
}

func (suite *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *RouterTestSuite) SetupTest() {
	logger := zap.NewNop()
	cfg := &config.Config{
		App:        config.AppConfig{Name: "nutrino", Version: "test", Environment: "test"},
		Auth:       config.AuthConfig{JWTSecret: "router-test-secret", Issuer: "nutrino", JWTExpiration: time.Hour},
		Monitoring: config.MonitoringConfig{EnableMetrics: true, MetricsPath: "/metrics", HealthCheckPath: "/health"},
	}

	db := testutils.NewTestDB(suite.T(), gormrepo.Models()...)
	records := gormrepo.NewRecipeRecordRepository(db)
	plans := gormrepo.NewMealPlanRepository(db)
	users := gormrepo.NewUserRepository(db)

	metrics := monitoring.NewMetricsCollector(logger)
	engine := generation.NewEngine(static.NewGenerator(logger), metrics, logger)
	policy := consistency.Policy{MaxAttempts: 2, Delay: time.Millisecond}

	recipes := recipe.NewRecipeService(records, users, engine, policy, metrics, logger)
	mealPlans := mealplan.NewMealPlanService(plans, users, engine, policy, metrics, logger)
	profiles := profile.NewProfileService(users, records, plans, logger)

	suite.cache = memory.NewCacheRepository(0)
	suite.auth = security.NewAuthService(cfg.Auth, suite.cache, logger)

	validate := validator.New()
	suite.router = NewRouter(RouterDeps{
		Config:     cfg,
		Middleware: middleware.New(cfg, noop.NewTracerProvider().Tracer("test"), logger),
		Tokens:     suite.auth,
		Handlers: Handlers{
			Generation: handlers.NewGenerationHandlers(generation.NewDispatcher(recipes, mealPlans, logger), validate, logger),
			Library:    handlers.NewLibraryHandlers(recipes, mealPlans, validate, logger),
			Profile:    handlers.NewProfileHandlers(profiles),
			Parse:      handlers.NewParseHandlers(validate, metrics),
			Auth:       handlers.NewAuthHandlers(suite.auth, logger),
		},
		Health:  healthcheck.New("test", logger),
		Metrics: metrics,
		Logger:  logger,
	})
	suite.assertions = testutils.NewHTTPAssertions(suite.T())

	token, err := suite.auth.IssueToken("user-42", "cook@example.com", "Test Cook")
	require.NoError(suite.T(), err)
	suite.token = token
}

func (suite *RouterTestSuite) TearDownTest() {
	suite.cache.Close()
}

func (suite *RouterTestSuite) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

type generationEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		ID       string `json:"id"`
		Variant  string `json:"variant"`
		Title    string `json:"title"`
		Document struct {
			Title    string              `json:"title"`
			Sections map[string][]string `json:"sections"`
		} `json:"document"`
	} `json:"data"`
	Message string `json:"message"`
}

func (suite *RouterTestSuite) TestPublicRoutes() {
	suite.Run("Root_ShouldReturnBanner", func() {
		var body map[string]string
		suite.assertions.JSONResponse(suite.request(http.MethodGet, "/", nil, ""), http.StatusOK, &body)
		assert.Equal(suite.T(), handlers.RootMessage, body["message"])
	})

	suite.Run("Health_ShouldBeHealthyWithoutCheckers", func() {
		var body map[string]interface{}
		suite.assertions.JSONResponse(suite.request(http.MethodGet, "/health", nil, ""), http.StatusOK, &body)
		assert.Equal(suite.T(), "healthy", body["status"])
	})

	suite.Run("Metrics_ShouldExposeHTTPCounters", func() {
		suite.request(http.MethodGet, "/", nil, "")

		rec := suite.request(http.MethodGet, "/metrics", nil, "")

		assert.Equal(suite.T(), http.StatusOK, rec.Code)
		assert.Contains(suite.T(), rec.Body.String(), "http_requests_total")
	})

	suite.Run("UnknownRoute_ShouldBeNotFoundEnvelope", func() {
		rec := suite.request(http.MethodGet, "/api/nowhere", nil, "")
		suite.assertions.ErrorCode(rec, http.StatusNotFound, "NOT_FOUND")
	})

	suite.Run("Parse_ShouldAssembleRequestedLabels", func() {
		var body struct {
			Data struct {
				Title    string              `json:"title"`
				Sections map[string][]string `json:"sections"`
			} `json:"data"`
		}

		rec := suite.request(http.MethodPost, "/api/parse", handlers.ParseRequest{
			Content: static.Recipe("tomato soup"),
			Labels:  []string{"Ingredients", "Instructions"},
		}, "")

		suite.assertions.JSONResponse(rec, http.StatusOK, &body)
		assert.Equal(suite.T(), "Tomato Soup", body.Data.Title)
		assert.Len(suite.T(), body.Data.Sections["Ingredients"], 4)
	})
}

func (suite *RouterTestSuite) TestProtectedRoutes() {
	suite.Run("MissingToken_ShouldBeUnauthorized", func() {
		rec := suite.request(http.MethodGet, "/api/profile", nil, "")
		suite.assertions.ErrorCode(rec, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	suite.Run("FetchRecipe_ShouldStoreAndReturnRecipe", func() {
		var body generationEnvelope

		rec := suite.request(http.MethodPost, "/api/fetch-recipe", map[string]string{"prompt": "pancakes"}, suite.token)

		suite.assertions.JSONResponse(rec, http.StatusCreated, &body)
		assert.True(suite.T(), body.Success)
		assert.Equal(suite.T(), "Pancakes", body.Data.Title)
		assert.Equal(suite.T(), generation.VariantRecipe, body.Data.Variant)
		assert.NotEmpty(suite.T(), body.Data.Document.Sections["Ingredients"])

		var latest generationEnvelope
		suite.assertions.JSONResponse(suite.request(http.MethodGet, "/api/recipes/latest", nil, suite.token), http.StatusOK, &latest)
		assert.Equal(suite.T(), body.Data.ID, latest.Data.ID)
	})

	suite.Run("EmptyPrompt_ShouldFailValidation", func() {
		rec := suite.request(http.MethodPost, "/api/fetch-recipe", map[string]string{"prompt": "  "}, suite.token)
		suite.assertions.ErrorCode(rec, http.StatusBadRequest, "VALIDATION_FAILED")
	})

	suite.Run("MealPlan_ShouldBeGeneratedThenDeleted", func() {
		var body generationEnvelope
		rec := suite.request(http.MethodPost, "/api/generate-meal-plan", map[string]interface{}{
			"ingredients": "oats, salmon, tofu",
			"mealsPerDay": 4,
		}, suite.token)
		suite.assertions.JSONResponse(rec, http.StatusCreated, &body)
		assert.Equal(suite.T(), generation.VariantMealPlan, body.Data.Variant)
		assert.Len(suite.T(), body.Data.Document.Sections["Breakfast"], 2)

		var deleted struct {
			Data struct {
				Deleted int64 `json:"deleted"`
			} `json:"data"`
		}
		suite.assertions.JSONResponse(suite.request(http.MethodDelete, "/api/delete-meal-plan", nil, suite.token), http.StatusOK, &deleted)
		assert.Equal(suite.T(), int64(1), deleted.Data.Deleted)

		rec = suite.request(http.MethodGet, "/api/meal-plans/latest", nil, suite.token)
		suite.assertions.ErrorCode(rec, http.StatusNotFound, "MEAL_PLAN_NOT_FOUND")
	})

	suite.Run("UnknownVariant_ShouldBeNotFound", func() {
		rec := suite.request(http.MethodPost, "/api/generate/dessert", map[string]string{"prompt": "cake"}, suite.token)
		suite.assertions.ErrorCode(rec, http.StatusNotFound, "UNKNOWN_VARIANT")
	})

	suite.Run("Profile_ShouldCountSearches", func() {
		var body struct {
			Data struct {
				UserID        string `json:"userId"`
				TotalSearches int    `json:"totalSearches"`
			} `json:"data"`
		}

		suite.assertions.JSONResponse(suite.request(http.MethodGet, "/api/profile", nil, suite.token), http.StatusOK, &body)

		assert.Equal(suite.T(), "user-42", body.Data.UserID)
		assert.Equal(suite.T(), 1, body.Data.TotalSearches)
	})

	suite.Run("Logout_ShouldRevokeToken", func() {
		rec := suite.request(http.MethodPost, "/api/auth/logout", nil, suite.token)
		suite.assertions.JSONResponse(rec, http.StatusOK, nil)

		rec = suite.request(http.MethodGet, "/api/profile", nil, suite.token)
		suite.assertions.ErrorCode(rec, http.StatusForbidden, "INVALID_TOKEN")
	})
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
