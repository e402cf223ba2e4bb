// Package ai wires the configured generative provider and the response
// cache in front of it.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
)

// CacheMetrics receives cache hit/miss counts
type CacheMetrics interface {
	CacheOperation(operation, cacheType, status string)
}

const cacheType = "generation"

// CachedGenerator serves repeated prompts from the cache
type CachedGenerator struct {
	next    outbound.TextGenerator
	cache   outbound.CacheRepository
	ttl     time.Duration
	metrics CacheMetrics
	logger  *zap.Logger
}

// NewCachedGenerator wraps next with a cache-first lookup
func NewCachedGenerator(next outbound.TextGenerator, cache outbound.CacheRepository, ttl time.Duration, metrics CacheMetrics, logger *zap.Logger) *CachedGenerator {
	return &CachedGenerator{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.Named("cached-generator"),
	}
}

// Name reports the wrapped provider
func (c *CachedGenerator) Name() string {
	return c.next.Name()
}

// Ping checks the wrapped provider
func (c *CachedGenerator) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// Generate returns the cached text for prompt or generates and stores it.
// Cache failures never fail the call.
func (c *CachedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	key := CacheKey(c.next.Name(), prompt)

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil && len(data) > 0:
		c.metrics.CacheOperation("get", cacheType, "hit")
		c.logger.Debug("Generation served from cache", zap.String("key", key))
		return string(data), nil
	case err == nil, errors.Is(err, outbound.ErrCacheMiss):
		c.metrics.CacheOperation("get", cacheType, "miss")
	default:
		c.metrics.CacheOperation("get", cacheType, "error")
		c.logger.Warn("Generation cache read failed", zap.Error(err))
	}

	text, err := c.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, []byte(text), c.ttl); err != nil {
		c.metrics.CacheOperation("set", cacheType, "error")
		c.logger.Warn("Generation cache write failed", zap.Error(err))
	} else {
		c.metrics.CacheOperation("set", cacheType, "ok")
	}
	return text, nil
}

// CacheKey derives the cache key for a provider and prompt
func CacheKey(provider, prompt string) string {
	sum := sha256.Sum256([]byte(provider + "\x00" + prompt))
	return "generation:" + hex.EncodeToString(sum[:])
}
