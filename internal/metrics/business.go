package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("iris/business")

	// Plan metrics
	PlanGenerationsTotal   metric.Int64Counter
	PlanGenerationDuration metric.Float64Histogram
	PlanCacheHitsTotal     metric.Int64Counter

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// AI metrics
	AIGenerationDuration metric.Float64Histogram

	// Image metrics
	ImageGenerationsTotal metric.Int64Counter

	// Provider fallback metrics
	ProviderFallbackTotal metric.Int64Counter
)

func Init() error {
	var err error

	PlanGenerationsTotal, err = meter.Int64Counter(
		"plan.generations.total",
		metric.WithDescription("Total number of plan generations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	PlanGenerationDuration, err = meter.Float64Histogram(
		"plan.generation.duration",
		metric.WithDescription("Duration of the plan generation pipeline"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	PlanCacheHitsTotal, err = meter.Int64Counter(
		"plan.cache.hits.total",
		metric.WithDescription("Total number of generation requests served from cache"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI plan generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	ImageGenerationsTotal, err = meter.Int64Counter(
		"image.generations.total",
		metric.WithDescription("Total number of image generation attempts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ProviderFallbackTotal, err = meter.Int64Counter(
		"provider.fallback.total",
		metric.WithDescription("Total number of provider fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
