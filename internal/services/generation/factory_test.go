package generation

import (
	"testing"

	"github.com/planfit/iris/internal/config"
)

func TestFactory_Gemini(t *testing.T) {
	cfg := config.GenerationConfig{
		Provider:        "gemini",
		Model:           "gemini-2.5-flash",
		FallbackEnabled: false,
	}

	provider := NewProvider(cfg, "test-gemini-key", "test-groq-key", "test-anthropic-key")

	if _, ok := provider.(*GeminiProvider); !ok {
		t.Errorf("Expected GeminiProvider, got %T", provider)
	}
}

func TestFactory_Groq(t *testing.T) {
	cfg := config.GenerationConfig{
		Provider:        "groq",
		FallbackEnabled: false,
	}

	provider := NewProvider(cfg, "test-gemini-key", "test-groq-key", "test-anthropic-key")

	if _, ok := provider.(*GroqProvider); !ok {
		t.Errorf("Expected GroqProvider, got %T", provider)
	}
}

func TestFactory_Anthropic(t *testing.T) {
	cfg := config.GenerationConfig{
		Provider:        "anthropic",
		FallbackEnabled: false,
	}

	provider := NewProvider(cfg, "test-gemini-key", "test-groq-key", "test-anthropic-key")

	if _, ok := provider.(*AnthropicProvider); !ok {
		t.Errorf("Expected AnthropicProvider, got %T", provider)
	}
}

func TestFactory_UnknownDefaultsToGemini(t *testing.T) {
	cfg := config.GenerationConfig{
		Provider:        "mystery",
		Model:           "gemini-2.5-flash",
		FallbackEnabled: false,
	}

	provider := NewProvider(cfg, "test-gemini-key", "test-groq-key", "test-anthropic-key")

	if _, ok := provider.(*GeminiProvider); !ok {
		t.Errorf("Expected GeminiProvider for unknown provider name, got %T", provider)
	}
}

func TestFactory_FallbackWrapping(t *testing.T) {
	cfg := config.GenerationConfig{
		Provider:         "gemini",
		Model:            "gemini-2.5-flash",
		FallbackEnabled:  true,
		FallbackProvider: "groq",
	}

	provider := NewProvider(cfg, "test-gemini-key", "test-groq-key", "test-anthropic-key")

	fallback, ok := provider.(*FallbackProvider)
	if !ok {
		t.Fatalf("Expected FallbackProvider, got %T", provider)
	}
	if _, ok := fallback.primary.(*GeminiProvider); !ok {
		t.Errorf("Expected GeminiProvider primary, got %T", fallback.primary)
	}
	if _, ok := fallback.secondary.(*GroqProvider); !ok {
		t.Errorf("Expected GroqProvider secondary, got %T", fallback.secondary)
	}
}
