package generation

import (
	"github.com/planfit/iris/internal/config"
)

// NewProvider creates a new plan provider based on the configuration
// It can optionally wrap the provider in a fallback wrapper if enabled
func NewProvider(cfg config.GenerationConfig, geminiKey, groqKey, anthropicKey string) Provider {
	build := func(name string) Provider {
		switch ProviderType(name) {
		case ProviderGroq:
			return NewGroqProvider(groqKey)
		case ProviderAnthropic:
			return NewAnthropicProvider(anthropicKey)
		default:
			// Default to gemini
			return NewGeminiProvider(geminiKey, cfg.Model)
		}
	}

	primary := build(cfg.Provider)

	if cfg.FallbackEnabled {
		return NewFallbackProvider(primary, build(cfg.FallbackProvider))
	}

	return primary
}
