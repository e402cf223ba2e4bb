package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigTestSuite covers loading, overrides and validation
type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *ConfigTestSuite) writeConfig(body string) string {
	path := filepath.Join(suite.dir, "config.yaml")
	require.NoError(suite.T(), os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (suite *ConfigTestSuite) TestLoad() {
	suite.Run("StaticProviderWithDefaults_ShouldLoad", func() {
		// Arrange
		path := suite.writeConfig("ai:\n  provider: static\n")

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 5000, cfg.Server.Port)
		assert.Equal(suite.T(), DriverSQLite, cfg.Database.Driver)
		assert.Equal(suite.T(), 3, cfg.Consistency.ReadRetry.MaxAttempts)
		assert.Equal(suite.T(), time.Second, cfg.Consistency.ReadRetry.Delay)
		assert.Equal(suite.T(), "/metrics", cfg.Monitoring.MetricsPath)
		assert.Equal(suite.T(), "gemini-1.5-flash", cfg.AI.Gemini.Model)
	})

	suite.Run("FileValues_ShouldOverrideDefaults", func() {
		path := suite.writeConfig(`
app:
  log_level: debug
ai:
  provider: ollama
consistency:
  read_retry:
    max_attempts: 5
    delay: 250ms
`)

		cfg, err := Load(path)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "debug", cfg.App.LogLevel)
		assert.Equal(suite.T(), 5, cfg.Consistency.ReadRetry.MaxAttempts)
		assert.Equal(suite.T(), 250*time.Millisecond, cfg.Consistency.ReadRetry.Delay)
	})

	suite.Run("LegacyEnvironment_ShouldBeHonoured", func() {
		path := suite.writeConfig("app:\n  name: Nutrino\n")
		suite.T().Setenv("API_KEY", "legacy-key")
		suite.T().Setenv("PORT", "7070")

		cfg, err := Load(path)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "legacy-key", cfg.AI.Gemini.APIKey)
		assert.Equal(suite.T(), 7070, cfg.Server.Port)
	})

	suite.Run("PrefixedEnvironment_ShouldOverrideFile", func() {
		path := suite.writeConfig("ai:\n  provider: static\nrate_limit:\n  requests_per_min: 30\n")
		suite.T().Setenv("NUTRINO_RATE_LIMIT_REQUESTS_PER_MIN", "90")

		cfg, err := Load(path)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), 90, cfg.RateLimit.RequestsPerMin)
	})

	suite.Run("GeminiWithoutKey_ShouldBeRejected", func() {
		path := suite.writeConfig("ai:\n  provider: gemini\n")

		_, err := Load(path)

		require.Error(suite.T(), err)
		assert.Contains(suite.T(), err.Error(), "ai.gemini.api_key")
	})
}

func (suite *ConfigTestSuite) TestValidate() {
	valid := func() *Config {
		return &Config{
			App:         AppConfig{Name: "Nutrino", Environment: "development"},
			Server:      ServerConfig{Port: 5000},
			Database:    DatabaseConfig{Driver: DriverSQLite, Path: "test.db"},
			AI:          AIConfig{Provider: ProviderStatic},
			Consistency: ConsistencyConfig{},
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ZeroAttempts_ShouldFail", func(c *Config) {}, "max_attempts"},
		{"NegativeDelay_ShouldFail", func(c *Config) {
			c.Consistency.ReadRetry.MaxAttempts = 1
			c.Consistency.ReadRetry.Delay = -time.Second
		}, "delay"},
		{"ProductionWithoutSecret_ShouldFail", func(c *Config) {
			c.Consistency.ReadRetry.MaxAttempts = 1
			c.App.Environment = "production"
		}, "jwt_secret"},
		{"UnknownDriver_ShouldFail", func(c *Config) {
			c.Consistency.ReadRetry.MaxAttempts = 1
			c.Database.Driver = "mysql"
		}, "database.driver"},
		{"BadPort_ShouldFail", func(c *Config) {
			c.Consistency.ReadRetry.MaxAttempts = 1
			c.Server.Port = 70000
		}, "server.port"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()

			require.Error(suite.T(), err)
			assert.Contains(suite.T(), err.Error(), tc.wantErr)
		})
	}
}

func (suite *ConfigTestSuite) TestWatch() {
	suite.Run("LogLevelChange_ShouldApplyToAtomicLevel", func() {
		// Arrange
		path := suite.writeConfig("app:\n  log_level: info\nai:\n  provider: static\n")
		level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		w, err := Watch(ctx, path, level, zap.NewNop())
		require.NoError(suite.T(), err)
		defer w.Close()

		reloaded := make(chan *Config, 1)
		w.OnReload(func(cfg *Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})

		// Act
		suite.writeConfig("app:\n  log_level: debug\nai:\n  provider: static\n")

		// Assert
		select {
		case cfg := <-reloaded:
			assert.Equal(suite.T(), "debug", cfg.App.LogLevel)
			assert.Equal(suite.T(), zapcore.DebugLevel, level.Level())
		case <-time.After(5 * time.Second):
			suite.T().Fatal("configuration was not reloaded")
		}
	})
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
