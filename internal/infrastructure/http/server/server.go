// Package server assembles the gin router and owns the HTTP listener
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/infrastructure/config"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/http/handlers"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/http/middleware"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/monitoring"
	apperrors "github.com/nutrino-ai/nutrino/pkg/errors"
	"github.com/nutrino-ai/nutrino/pkg/healthcheck"
)

// Handlers groups the route handlers mounted by NewRouter
type Handlers struct {
	Generation *handlers.GenerationHandlers
	Library    *handlers.LibraryHandlers
	Profile    *handlers.ProfileHandlers
	Parse      *handlers.ParseHandlers
	Auth       *handlers.AuthHandlers
}

// RouterDeps are the collaborators of NewRouter
type RouterDeps struct {
	Config     *config.Config
	Middleware *middleware.Middleware
	Tokens     middleware.TokenValidator
	Handlers   Handlers
	Health     *healthcheck.HealthCheck
	Metrics    *monitoring.MetricsCollector
	Logger     *zap.Logger
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		deps.Logger.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	mw := deps.Middleware
	router.Use(
		mw.RequestID(),
		mw.Logger(),
		mw.Recovery(),
		mw.Security(),
		mw.CORS(),
		mw.Tracing(),
	)
	metricsEnabled := deps.Metrics != nil && cfg.Monitoring.EnableMetrics
	if metricsEnabled {
		router.Use(deps.Metrics.HTTPMiddleware())
	}
	router.Use(
		mw.RateLimit(),
		mw.ErrorHandler(),
	)

	router.GET("/", handlers.Root)

	healthPath := cfg.Monitoring.HealthCheckPath
	if healthPath == "" {
		healthPath = "/health"
	}
	router.GET(healthPath, deps.Health.Handler())
	router.GET(healthPath+"/live", deps.Health.LivenessHandler())
	router.GET(healthPath+"/ready", deps.Health.ReadinessHandler())

	if metricsEnabled {
		router.GET(cfg.Monitoring.MetricsPath, gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")
	api.GET("/openapi.yaml", handlers.OpenAPISpec)
	api.POST("/parse", deps.Handlers.Parse.Parse)

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Tokens, deps.Logger.Named("auth-middleware")))
	{
		protected.POST("/generate/:variant", deps.Handlers.Generation.Generate)
		protected.POST("/fetch-recipe", deps.Handlers.Generation.FetchRecipe)
		protected.POST("/generate-meal-plan", deps.Handlers.Generation.GenerateMealPlan)

		protected.GET("/recipes", deps.Handlers.Library.ListRecipes)
		protected.GET("/recipes/latest", deps.Handlers.Library.LatestRecipe)
		protected.GET("/meal-plans/latest", deps.Handlers.Library.LatestMealPlan)
		protected.DELETE("/meal-plans", deps.Handlers.Library.DeleteMealPlans)
		protected.DELETE("/delete-meal-plan", deps.Handlers.Library.DeleteMealPlans)

		protected.GET("/profile", deps.Handlers.Profile.GetProfile)
		protected.POST("/profile/avatar", deps.Handlers.Profile.ChangeAvatar)

		protected.POST("/auth/logout", deps.Handlers.Auth.Logout)
	}

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.NewAppError(apperrors.CodeNotFound, "Route not found", c.Request.URL.Path))
	})

	return router
}

// Server represents the HTTP server
type Server struct {
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		logger: logger.Named("http-server"),
		server: &http.Server{
			Addr:           cfg.Server.Address(),
			Handler:        handler,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
