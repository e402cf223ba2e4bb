package ai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/infrastructure/ai/gemini"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/ai/ollama"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/ai/static"
	"github.com/nutrino-ai/nutrino/internal/infrastructure/config"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
)

// NewGenerator builds the provider named in cfg, behind the cache when
// caching is enabled.
func NewGenerator(cfg config.AIConfig, cache outbound.CacheRepository, metrics CacheMetrics, logger *zap.Logger) (outbound.TextGenerator, error) {
	var gen outbound.TextGenerator
	switch cfg.Provider {
	case config.ProviderGemini:
		gen = gemini.NewClient(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
			Timeout: cfg.Timeout,
		}, logger)
	case config.ProviderOllama:
		gen = ollama.NewClient(ollama.Config{
			Host:    cfg.Ollama.Host,
			Model:   cfg.Ollama.Model,
			Timeout: cfg.Timeout,
		}, logger)
	case config.ProviderStatic:
		gen = static.NewGenerator(logger)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}

	if cfg.EnableCache && cache != nil {
		logger.Info("Generation cache enabled",
			zap.String("provider", gen.Name()),
			zap.Duration("ttl", cfg.CacheTTL))
		return NewCachedGenerator(gen, cache, cfg.CacheTTL, metrics, logger), nil
	}
	return gen, nil
}
