package container

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/nutrino-ai/nutrino/internal/infrastructure/security"
	"github.com/nutrino-ai/nutrino/test/testutils"
)

const testConfig = `
app:
  log_level: error
database:
  path: ":memory:"
auth:
  jwt_secret: container-test-secret
ai:
  provider: static
consistency:
  read_retry:
    max_attempts: 2
    delay: 1ms
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func TestModule_ShouldResolveEveryDependency(t *testing.T) {
	assert.NoError(t, fx.ValidateApp(Module(""), fx.NopLogger))
}

func TestModule_WiredRouter_ShouldServeGeneratedRecipes(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	var (
		router *gin.Engine
		auth   *security.AuthService
	)
	fxtest.New(t,
		Module(writeConfig(t)),
		fx.NopLogger,
		fx.Populate(&router, &auth),
	)
	token, err := auth.IssueToken("user-7", "chef@example.com", "Chef")
	require.NoError(t, err)
	assertions := testutils.NewHTTPAssertions(t)

	// Act
	req := httptest.NewRequest(http.MethodPost, "/api/fetch-recipe", strings.NewReader(`{"prompt":"miso soup"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Assert
	var body struct {
		Data struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	assertions.JSONResponse(rec, http.StatusCreated, &body)
	assert.Equal(t, "Miso Soup", body.Data.Title)

	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	var status struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	assertions.JSONResponse(health, http.StatusOK, &status)
	assert.Equal(t, "healthy", status.Status)
	assert.Len(t, status.Checks, 2)
}
