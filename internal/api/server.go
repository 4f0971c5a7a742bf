package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/planfit/iris/internal/config"
	"github.com/planfit/iris/internal/db"
	"github.com/planfit/iris/internal/middleware"
	"github.com/planfit/iris/internal/sentry"
	"github.com/planfit/iris/internal/services/plan"
)

// Store is the persistence surface the handlers need.
type Store interface {
	UpsertUser(ctx context.Context, firebaseUID, email, displayName string) error
	SavePlan(ctx context.Context, firebaseUID string, planData, userFormData json.RawMessage) (*db.PlanRecord, error)
	UserPlans(ctx context.Context, firebaseUID string) ([]db.PlanRecord, error)
	GetPlan(ctx context.Context, planID, firebaseUID string) (*db.PlanRecord, error)
	DeletePlan(ctx context.Context, planID, firebaseUID string) error
	GetPreferences(ctx context.Context, firebaseUID string) (*db.Preferences, error)
	SavePreferences(ctx context.Context, firebaseUID, theme string) (*db.Preferences, error)
	SaveTrigger(ctx context.Context, firebaseUID string, payload json.RawMessage) (*db.Trigger, error)
	PopLatestTrigger(ctx context.Context, firebaseUID string) (*db.Trigger, error)
}

// PlanGenerator produces plans for profiles (cache-aware).
type PlanGenerator interface {
	Generate(ctx context.Context, profile plan.UserProfile) (*plan.Plan, error)
	Seed(ctx context.Context, profile plan.UserProfile, raw json.RawMessage) *plan.Plan
}

// ImageGenerator produces a data URI image for a named item.
type ImageGenerator interface {
	Generate(ctx context.Context, name, category string) (string, error)
}

// SpeechSynthesizer converts text to an audio data URI.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// QuoteSource serves motivation quotes.
type QuoteSource interface {
	Quote(ctx context.Context) string
}

type Server struct {
	cfg         *config.Config
	store       Store
	plans       PlanGenerator
	images      ImageGenerator
	speech      SpeechSynthesizer
	quotes      QuoteSource
	asynqClient *asynq.Client
	confirm     *ConfirmGuard
}

func NewServer(cfg *config.Config, store Store, plans PlanGenerator, images ImageGenerator, speech SpeechSynthesizer, quotes QuoteSource, asynqClient *asynq.Client) *Server {
	return &Server{
		cfg:         cfg,
		store:       store,
		plans:       plans,
		images:      images,
		speech:      speech,
		quotes:      quotes,
		asynqClient: asynqClient,
		confirm:     NewConfirmGuard(),
	}
}

// Router assembles the chi router with telemetry, CORS and the protected API
// group.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(otelchi.Middleware(s.cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(s.cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(sentry.HTTPMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.cfg))
		r.Post("/api/generate-plan", s.HandleGeneratePlan)
		r.Post("/api/generate-image", s.HandleGenerateImage)
		r.Post("/api/text-to-speech", s.HandleTextToSpeech)
		r.Get("/api/motivation", s.HandleMotivation)
		r.Post("/api/save-plan", s.HandleSavePlan)
		r.Get("/api/user-plans", s.HandleUserPlans)
		r.Delete("/api/delete-plan", s.HandleDeletePlan)
		r.Get("/api/user-preferences", s.HandleGetPreferences)
		r.Post("/api/user-preferences", s.HandleSavePreferences)
		r.Post("/api/dashboard-trigger", s.HandleSaveTrigger)
		r.Get("/api/dashboard-trigger", s.HandlePopTrigger)
	})

	return r
}

// The error message is the sole machine-readable failure signal; clients
// match on `{error: string}` and the status code.
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
