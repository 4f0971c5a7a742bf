package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGenerationConfig(t *testing.T) {
	configContent := `generation:
  provider: anthropic
  model: claude-sonnet-4-20250514
  fallback_enabled: false
  fallback_provider: gemini`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.Generation.Provider != "anthropic" {
		t.Errorf("Expected provider to be 'anthropic', got '%s'", cfg.Generation.Provider)
	}
	if cfg.Generation.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Expected model to be 'claude-sonnet-4-20250514', got '%s'", cfg.Generation.Model)
	}
	if cfg.Generation.FallbackEnabled != false {
		t.Errorf("Expected fallback_enabled to be false, got %v", cfg.Generation.FallbackEnabled)
	}
	if cfg.Generation.FallbackProvider != "gemini" {
		t.Errorf("Expected fallback_provider to be 'gemini', got '%s'", cfg.Generation.FallbackProvider)
	}
}

func TestLoadGenerationConfigPartial(t *testing.T) {
	configContent := `generation:
  provider: groq`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config_partial.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	cfg.SetGenerationDefaults() // Set defaults first
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if cfg.Generation.Provider != "groq" {
		t.Errorf("Expected provider to be 'groq', got '%s'", cfg.Generation.Provider)
	}
	if cfg.Generation.FallbackEnabled != true {
		t.Errorf("Expected fallback_enabled to be true (default), got %v", cfg.Generation.FallbackEnabled)
	}
	if cfg.Generation.FallbackProvider != "groq" {
		t.Errorf("Expected fallback_provider to be 'groq' (default), got '%s'", cfg.Generation.FallbackProvider)
	}
}

func TestLoadImageModels(t *testing.T) {
	configContent := `image:
  models:
    - black-forest-labs/FLUX.1-schnell
    - stabilityai/stable-diffusion-2-1`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config_image.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	err = cfg.LoadFromYAML(configPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	if len(cfg.Image.Models) != 2 {
		t.Fatalf("Expected 2 image models, got %d", len(cfg.Image.Models))
	}
	if cfg.Image.Models[0] != "black-forest-labs/FLUX.1-schnell" {
		t.Errorf("Unexpected first model: %s", cfg.Image.Models[0])
	}
}

func TestImageModelDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetImageDefaults()

	if len(cfg.Image.Models) != 3 {
		t.Fatalf("Expected 3 default image models, got %d", len(cfg.Image.Models))
	}
	if cfg.Image.Models[0] != "stabilityai/stable-diffusion-xl-base-1.0" {
		t.Errorf("Expected SDXL to be the first candidate, got '%s'", cfg.Image.Models[0])
	}
}

func TestGenerationDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetGenerationDefaults()

	if cfg.Generation.Provider != "gemini" {
		t.Errorf("Expected provider to be 'gemini' (default), got '%s'", cfg.Generation.Provider)
	}
	if cfg.Generation.FallbackEnabled != true {
		t.Errorf("Expected fallback_enabled to be true (default), got %v", cfg.Generation.FallbackEnabled)
	}
	if cfg.Generation.FallbackProvider != "groq" {
		t.Errorf("Expected fallback_provider to be 'groq' (default), got '%s'", cfg.Generation.FallbackProvider)
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	cfg := &Config{}
	err := cfg.LoadFromYAML("non_existent_file.yaml")

	// Should not return an error for non-existent files
	if err != nil {
		t.Errorf("Expected no error for non-existent file, got: %v", err)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configContent := `generation:
  provider: gemini
  invalid_yaml: [unclosed`

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config_invalid.yaml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg := &Config{}
	err = cfg.LoadFromYAML(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}
