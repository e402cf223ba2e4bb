// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nutrino-ai/nutrino/internal/application/generation"
	"github.com/nutrino-ai/nutrino/internal/application/mealplan"
	"github.com/nutrino-ai/nutrino/internal/application/profile"
	"github.com/nutrino-ai/nutrino/internal/application/recipe"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/ai"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/config"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/http/handlers"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/http/middleware"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/http/server"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/monitoring"
	gormrepo "github.com/nutrino-ai/nutrino/internal/infrastructure/persistence/gorm"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/persistence/memory"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/persistence/postgres"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/persistence/redis"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/persistence/sqlite"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/security"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
	"github.com/nutrino-ai/nutrino/pkg/healthcheck"
	"github.com/nutrino-ai/nutrino/pkg/logger"
)

// ConfigPath is the configuration file the application was started with.
// Empty means the default search locations.
type ConfigPath string

// Module wires the whole application for the config file at path
func Module(path string) fx.Option {
	return fx.Options(
		fx.Supply(ConfigPath(path)),

		// Infrastructure modules
		ConfigModule,
		LoggerModule,
		DatabaseModule,
		CacheModule,
		MonitoringModule,

		// Repository modules
		RepositoryModule,

		// Service modules
		ServiceModule,

		// HTTP modules
		HTTPModule,

		// Lifecycle hooks
		LifecycleModule,
	)
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		log, level, err := logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
		if err != nil {
			return nil, level, err
		}
		return log.With(
			zap.String("service", cfg.App.Name),
			zap.String("version", cfg.App.Version),
			zap.String("environment", cfg.App.Environment),
		), level, nil
	},
)

// DatabaseModule provides the database selected by database.driver
var DatabaseModule = fx.Provide(
	NewDatabase,
	func(db *gorm.DB) (*sql.DB, error) {
		return db.DB()
	},
)

// NewDatabase opens the configured database and closes it on stop
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		cm, err := postgres.NewConnectionManager(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return cm.Close() },
		})
		return cm.DB(), nil

	case config.DriverSQLite, "":
		db, err := sqlite.SetupDatabase(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		return db, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// CacheBackend is the shared cache together with the Redis client behind
// it, if any.
type CacheBackend struct {
	fx.Out

	Cache outbound.CacheRepository
	Redis goredis.UniversalClient
}

// CacheModule provides caching
var CacheModule = fx.Provide(NewCache)

// NewCache connects to Redis when enabled and falls back to process memory
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (CacheBackend, error) {
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := redis.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return CacheBackend{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		return CacheBackend{Cache: redis.NewCacheRepository(client, log), Redis: client}, nil
	}

	log.Info("Using in-memory cache")
	cache := memory.NewCacheRepository(time.Minute)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cache.Close()
			return nil
		},
	})
	return CacheBackend{Cache: cache}, nil
}

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormrepo.NewRecipeRecordRepository,
	gormrepo.NewMealPlanRepository,
	gormrepo.NewUserRepository,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(cfg *config.Config, cache outbound.CacheRepository, metrics *monitoring.MetricsCollector, log *zap.Logger) (outbound.TextGenerator, error) {
		return ai.NewGenerator(cfg.AI, cache, metrics, log)
	},
	func(gen outbound.TextGenerator, metrics *monitoring.MetricsCollector, log *zap.Logger) *generation.Engine {
		return generation.NewEngine(gen, metrics, log)
	},
	func(
		cfg *config.Config,
		records outbound.RecipeRecordRepository,
		users outbound.UserRepository,
		engine *generation.Engine,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) inbound.RecipeService {
		return recipe.NewRecipeService(records, users, engine, cfg.Consistency.ReadRetry, metrics, log)
	},
	func(
		cfg *config.Config,
		plans outbound.MealPlanRepository,
		users outbound.UserRepository,
		engine *generation.Engine,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) inbound.MealPlanService {
		return mealplan.NewMealPlanService(plans, users, engine, cfg.Consistency.ReadRetry, metrics, log)
	},
	fx.Annotate(
		generation.NewDispatcher,
		fx.As(new(inbound.GenerationService)),
	),
	profile.NewProfileService,
	func(cfg *config.Config, cache outbound.CacheRepository, log *zap.Logger) *security.AuthService {
		return security.NewAuthService(cfg.Auth, cache, log)
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	func() *validator.Validate { return validator.New() },
	func(cfg *config.Config, tp *monitoring.TracingProvider, log *zap.Logger) *middleware.Middleware {
		return middleware.New(cfg, tp.Tracer(), log)
	},
	handlers.NewGenerationHandlers,
	handlers.NewLibraryHandlers,
	handlers.NewProfileHandlers,
	func(validate *validator.Validate, metrics *monitoring.MetricsCollector) *handlers.ParseHandlers {
		return handlers.NewParseHandlers(validate, metrics)
	},
	func(auth *security.AuthService, log *zap.Logger) *handlers.AuthHandlers {
		return handlers.NewAuthHandlers(auth, log)
	},
	NewHealthCheck,
	NewRouter,
	func(cfg *config.Config, router *gin.Engine, log *zap.Logger) *server.Server {
		return server.NewServer(cfg, router, log)
	},
)

// HealthCheckParams are the dependencies probed by the health endpoints
type HealthCheckParams struct {
	fx.In

	Config    *config.Config
	DB        *sql.DB
	Redis     goredis.UniversalClient `optional:"true"`
	Generator outbound.TextGenerator
	Logger    *zap.Logger
}

// NewHealthCheck registers a checker per dependency
func NewHealthCheck(p HealthCheckParams) *healthcheck.HealthCheck {
	health := healthcheck.New(p.Config.App.Version, p.Logger.Named("health"))
	health.Register("database", healthcheck.NewDatabaseChecker(p.DB))
	if p.Redis != nil {
		health.Register("redis", healthcheck.NewRedisChecker(p.Redis))
	}
	health.Register("generator", healthcheck.NewCircuitBreakerChecker(
		healthcheck.NewPingChecker(p.Generator),
		healthcheck.DefaultCircuitBreakerConfig(),
	))
	return health
}

// RouterParams collects everything mounted on the router
type RouterParams struct {
	fx.In

	Config     *config.Config
	Middleware *middleware.Middleware
	Auth       *security.AuthService
	Generation *handlers.GenerationHandlers
	Library    *handlers.LibraryHandlers
	Profile    *handlers.ProfileHandlers
	Parse      *handlers.ParseHandlers
	Session    *handlers.AuthHandlers
	Health     *healthcheck.HealthCheck
	Metrics    *monitoring.MetricsCollector
	Logger     *zap.Logger
}

// NewRouter builds the gin engine
func NewRouter(p RouterParams) *gin.Engine {
	return server.NewRouter(server.RouterDeps{
		Config:     p.Config,
		Middleware: p.Middleware,
		Tokens:     p.Auth,
		Handlers: server.Handlers{
			Generation: p.Generation,
			Library:    p.Library,
			Profile:    p.Profile,
			Parse:      p.Parse,
			Auth:       p.Session,
		},
		Health:  p.Health,
		Metrics: p.Metrics,
		Logger:  p.Logger,
	})
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// LifecycleParams are the components started and stopped with the app
type LifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Path       ConfigPath
	Config     *config.Config
	Level      zap.AtomicLevel
	Logger     *zap.Logger
	DB         *sql.DB
	Metrics    *monitoring.MetricsCollector
	Middleware *middleware.Middleware
	Server     *server.Server
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(p LifecycleParams) {
	log := p.Logger
	cfg := p.Config

	var (
		cancel  context.CancelFunc
		watcher *config.Watcher
	)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting Nutrino application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("address", cfg.Server.Address()),
			)

			var bg context.Context
			bg, cancel = context.WithCancel(context.Background())

			if cfg.RateLimit.Enable {
				go p.Middleware.Limiters().Run(bg, cfg.RateLimit.CleanupInterval)
			}
			if cfg.Monitoring.EnableMetrics {
				go p.Metrics.StartDBStatsReporter(bg, p.DB, 15*time.Second)
				go p.Metrics.StartUptimeCounter(bg)
			}

			if p.Path != "" {
				w, err := config.Watch(bg, string(p.Path), p.Level, log)
				if err != nil {
					log.Warn("Configuration hot reload unavailable", zap.Error(err))
				} else {
					watcher = w
				}
			}

			go func() {
				if err := p.Server.Start(); err != nil {
					log.Error("HTTP server failed", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Nutrino application")

			shutdownCtx := ctx
			if cfg.Server.ShutdownTimeout > 0 {
				var done context.CancelFunc
				shutdownCtx, done = context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
				defer done()
			}
			if err := p.Server.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if watcher != nil {
				_ = watcher.Close()
			}
			if cancel != nil {
				cancel()
			}

			_ = log.Sync()
			return nil
		},
	})
}
