package generation

import (
	"context"

	"github.com/planfit/iris/internal/services/plan"
)

// ProviderType represents the type of AI provider
type ProviderType string

const (
	ProviderGemini    ProviderType = "gemini"
	ProviderGroq      ProviderType = "groq"
	ProviderAnthropic ProviderType = "anthropic"
)

// Provider defines the interface for AI plan generation providers
type Provider interface {
	GeneratePlan(ctx context.Context, profile plan.UserProfile) (*plan.Plan, error)
}

// TextGenerator is implemented by providers that can also produce free-form
// text, used for the motivation quote feature.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
