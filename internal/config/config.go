package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	DatabaseURL string
	RedisURL    string

	AuthJWTSecret string
	AuthIssuer    string

	GeminiAPIKey      string
	GroqAPIKey        string
	AnthropicAPIKey   string
	HuggingFaceAPIKey string
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	Generation GenerationConfig
	Image      ImageConfig
}

type GenerationConfig struct {
	Provider         string `yaml:"provider"`
	Model            string `yaml:"model"`
	FallbackEnabled  bool   `yaml:"fallback_enabled"`
	FallbackProvider string `yaml:"fallback_provider"`
}

type ImageConfig struct {
	Models []string `yaml:"models"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		AuthJWTSecret:            os.Getenv("AUTH_JWT_SECRET"),
		AuthIssuer:               os.Getenv("AUTH_ISSUER"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:               os.Getenv("GROQ_API_KEY"),
		AnthropicAPIKey:          os.Getenv("ANTHROPIC_API_KEY"),
		HuggingFaceAPIKey:        os.Getenv("HUGGINGFACE_API_KEY"),
		ElevenLabsAPIKey:         os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID:        os.Getenv("ELEVENLABS_VOICE_ID"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "planfit-iris"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ElevenLabsVoiceID == "" {
		cfg.ElevenLabsVoiceID = "21m00Tcm4TlvDq8ikWAM"
	}

	cfg.SetGenerationDefaults()
	cfg.SetImageDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Generation GenerationConfig `yaml:"generation"`
		Image      ImageConfig      `yaml:"image"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlConfig.Generation.Provider != "" {
		c.Generation.Provider = yamlConfig.Generation.Provider
	}
	if yamlConfig.Generation.Model != "" {
		c.Generation.Model = yamlConfig.Generation.Model
	}
	if yamlConfig.Generation.FallbackEnabled {
		c.Generation.FallbackEnabled = yamlConfig.Generation.FallbackEnabled
	}
	if yamlConfig.Generation.FallbackProvider != "" {
		c.Generation.FallbackProvider = yamlConfig.Generation.FallbackProvider
	}
	if len(yamlConfig.Image.Models) > 0 {
		c.Image.Models = yamlConfig.Image.Models
	}

	return nil
}

func (c *Config) SetGenerationDefaults() {
	if c.Generation.Provider == "" {
		c.Generation.Provider = "gemini"
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gemini-2.5-flash"
	}
	if !c.Generation.FallbackEnabled {
		c.Generation.FallbackEnabled = true
	}
	if c.Generation.FallbackProvider == "" {
		c.Generation.FallbackProvider = "groq"
	}
}

func (c *Config) SetImageDefaults() {
	if len(c.Image.Models) == 0 {
		c.Image.Models = []string{
			"stabilityai/stable-diffusion-xl-base-1.0",
			"runwayml/stable-diffusion-v1-5",
			"stabilityai/stable-diffusion-2-1",
		}
	}
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	return nil
}
