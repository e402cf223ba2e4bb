package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
	"github.com/nutrino-ai/nutrino/internal/ports/inbound"
	"github.com/nutrino-ai/nutrino/internal/ports/outbound"
	apperrors "github.com/nutrino-ai/nutrino/pkg/errors"
	applog "github.com/nutrino-ai/nutrino/pkg/logger"
)

// Metrics receives generation measurements.
type Metrics interface {
	GenerationRequest(variant, provider, status string, duration time.Duration)
	PlaceholderSections(view string, labels []string)
}

// Engine runs a variant against the configured text generator.
type Engine struct {
	generator outbound.TextGenerator
	metrics   Metrics
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewEngine creates a generation engine
func NewEngine(generator outbound.TextGenerator, metrics Metrics, logger *zap.Logger) *Engine {
	return &Engine{
		generator: generator,
		metrics:   metrics,
		tracer:    otel.Tracer("github.com/nutrino-ai/nutrino/generation"),
		logger:    logger.Named("generation"),
	}
}

// Provider names the text generator in use.
func (e *Engine) Provider() string {
	return e.generator.Name()
}

// Generate builds the variant's prompt and returns the raw generated text.
// Failures are returned as AppErrors.
func (e *Engine) Generate(ctx context.Context, v Variant, req inbound.GenerateRequest) (string, error) {
	provider := e.generator.Name()
	ctx, span := e.tracer.Start(ctx, "generate."+v.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("ai.provider", provider),
			attribute.String("ai.variant", v.Name),
		),
	)
	defer span.End()

	start := time.Now()
	text, err := e.generator.Generate(ctx, v.BuildPrompt(req))
	if err == nil && strings.TrimSpace(text) == "" {
		err = outbound.ErrEmptyGeneration
	}
	duration := time.Since(start)

	if err != nil {
		e.metrics.GenerationRequest(v.Name, provider, statusOf(err), duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		applog.WithContext(ctx, e.logger).Warn("Generation failed",
			zap.String("variant", v.Name),
			zap.String("provider", provider),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", TranslateError(provider, err)
	}

	e.metrics.GenerationRequest(v.Name, provider, "success", duration)
	e.recordMissing(ctx, v, text)
	span.SetAttributes(attribute.Int("ai.response_length", len(text)))
	applog.WithContext(ctx, e.logger).Debug("Generation completed",
		zap.String("variant", v.Name),
		zap.String("provider", provider),
		zap.Duration("duration", duration),
		zap.Int("length", len(text)),
	)
	return text, nil
}

// Assemble parses raw text with the variant's view. It has no side effects
// and runs on every read of a stored document.
func (e *Engine) Assemble(v Variant, raw string) document.ParsedDocument {
	return v.View.Assemble(raw)
}

// recordMissing counts the sections a freshly generated document lacks.
func (e *Engine) recordMissing(ctx context.Context, v Variant, raw string) {
	missing := v.View.Assemble(raw).MissingSections()
	if len(missing) == 0 {
		return
	}
	e.metrics.PlaceholderSections(v.View.Name, missing)
	applog.WithContext(ctx, e.logger).Debug("Generated document is missing sections",
		zap.String("view", v.View.Name),
		zap.Strings("labels", missing),
	)
}

// TranslateError maps generator failures onto API errors.
func TranslateError(provider string, err error) *apperrors.AppError {
	var upstream *outbound.UpstreamError
	switch {
	case errors.Is(err, outbound.ErrEmptyGeneration):
		return apperrors.NewGenerationEmptyError(provider)
	case errors.Is(err, outbound.ErrUpstreamAuth):
		return apperrors.NewUpstreamRejectedError(provider, err)
	case errors.Is(err, outbound.ErrUpstreamRateLimited):
		return apperrors.NewAppError(apperrors.CodeServiceUnavailable, "Generation provider is busy",
			"The provider is rate limiting requests, please try again later").WithCause(err)
	case errors.As(err, &upstream) && upstream.ClientError():
		return apperrors.NewUpstreamRejectedError(provider, err)
	default:
		return apperrors.NewExternalServiceError(provider, err)
	}
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, outbound.ErrEmptyGeneration):
		return "empty"
	case errors.Is(err, outbound.ErrUpstreamAuth):
		return "rejected"
	case errors.Is(err, outbound.ErrUpstreamRateLimited):
		return "rate_limited"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}
