package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/planfit/iris/internal/api"
	"github.com/planfit/iris/internal/cache"
	"github.com/planfit/iris/internal/config"
	"github.com/planfit/iris/internal/db"
	"github.com/planfit/iris/internal/logger"
	"github.com/planfit/iris/internal/metrics"
	"github.com/planfit/iris/internal/sentry"
	"github.com/planfit/iris/internal/services/generation"
	"github.com/planfit/iris/internal/services/image"
	"github.com/planfit/iris/internal/services/speech"
	"github.com/planfit/iris/internal/telemetry"
	"github.com/planfit/iris/internal/worker"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, nil)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion)
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	logger := logger.New(cfg.Env)
	slog.SetDefault(logger)

	// Database connection
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	store := db.NewStore(pool)

	// Asynq client for enqueuing tasks
	asynqClient := worker.NewClient(cfg.RedisURL)
	defer asynqClient.Close()

	// Plan generation: provider (with fallback) behind the caching
	// orchestrator
	provider := generation.NewProvider(cfg.Generation, cfg.GeminiAPIKey, cfg.GroqAPIKey, cfg.AnthropicAPIKey)
	planCache := cache.NewPlanCache(cache.NewRedisClient(cfg.RedisURL))
	orchestrator := generation.NewOrchestrator(provider, planCache)

	// Motivation quotes share the Gemini text path
	motivator := generation.NewMotivator(generation.NewGeminiProvider(cfg.GeminiAPIKey, cfg.Generation.Model))

	dispatcher := image.NewDispatcher(cfg.HuggingFaceAPIKey, cfg.Image.Models)
	speechClient := speech.NewClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID)

	apiServer := api.NewServer(cfg, store, orchestrator, dispatcher, speechClient, motivator, asynqClient)

	slog.Info("Starting server", "port", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, apiServer.Router()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
