package generation

import (
	"context"
	"log/slog"

	"github.com/planfit/iris/internal/errors"
	"github.com/planfit/iris/internal/metrics"
	"github.com/planfit/iris/internal/services/plan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FallbackProvider implements Provider with fallback logic
type FallbackProvider struct {
	primary   Provider
	secondary Provider
}

// NewFallbackProvider creates a new fallback provider
func NewFallbackProvider(primary, secondary Provider) *FallbackProvider {
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
	}
}

// GeneratePlan tries the primary provider first, falls back to secondary on retryable errors
func (f *FallbackProvider) GeneratePlan(ctx context.Context, profile plan.UserProfile) (*plan.Plan, error) {
	result, err := f.primary.GeneratePlan(ctx, profile)
	if err == nil {
		return result, nil
	}

	providerErr := ClassifyError(err, "primary")

	if IsRetryableError(err) {
		slog.Info("Primary provider failed with retryable error, attempting fallback",
			"error_type", providerErr.Type,
			"error", err.Error())

		metrics.ProviderFallbackTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from_provider", providerErr.Provider),
			attribute.String("to_provider", "secondary"),
			attribute.String("reason", providerErr.Type),
		))

		result, fallbackErr := f.secondary.GeneratePlan(ctx, profile)
		if fallbackErr == nil {
			slog.Info("Fallback provider succeeded",
				"primary_error_type", providerErr.Type)
			return result, nil
		}

		fallbackProviderErr := ClassifyError(fallbackErr, "secondary")
		slog.Error("Both primary and secondary providers failed",
			"primary_error_type", providerErr.Type,
			"primary_error", err.Error(),
			"fallback_error_type", fallbackProviderErr.Type,
			"fallback_error", fallbackErr.Error())

		return nil, errors.NewPlanGenerationError(
			"both primary and secondary providers failed",
			"PROVIDER_FALLBACK_FAILED",
			err,
		)
	}

	// Not a retryable error (e.g. 4xx), return original error
	slog.Info("Primary provider failed with non-retryable error, not attempting fallback",
		"error_type", providerErr.Type,
		"error", err.Error())

	return nil, err
}
