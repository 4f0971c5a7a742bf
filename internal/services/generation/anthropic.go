package generation

import (
	"context"
	"fmt"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"github.com/planfit/iris/internal/httpclient"
	"github.com/planfit/iris/internal/metrics"
	"github.com/planfit/iris/internal/services/ai"
	"github.com/planfit/iris/internal/services/plan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const anthropicModel = anthropic.Model("claude-3-5-sonnet-latest")

// AnthropicProvider implements Provider for the Anthropic Messages API
type AnthropicProvider struct {
	client *anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic plan provider
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	client := anthropic.NewClient(apiKey,
		anthropic.WithHTTPClient(httpclient.NewInstrumentedClient(120*time.Second)),
	)
	return &AnthropicProvider{client: client}
}

// GeneratePlan generates a fitness plan using the Anthropic Messages API
func (p *AnthropicProvider) GeneratePlan(ctx context.Context, profile plan.UserProfile) (*plan.Plan, error) {
	text, err := p.GenerateText(ctx, ai.BuildPlanPrompt(profile))
	if err != nil {
		return nil, err
	}
	return plan.ParseOrFallback(text), nil
}

// GenerateText generates free-form text using the Anthropic Messages API
func (p *AnthropicProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		attrs := []attribute.KeyValue{attribute.String("provider", "anthropic")}
		metrics.AIGenerationDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}()

	resp, err := p.client.CreateMessages(httpclient.WithProvider(ctx, "Anthropic"), anthropic.MessagesRequest{
		Model:     anthropicModel,
		MaxTokens: 8192,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}

	text := resp.GetFirstContentText()
	if text == "" {
		return "", fmt.Errorf("no response from Anthropic")
	}
	return text, nil
}
