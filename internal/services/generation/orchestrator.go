package generation

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/planfit/iris/internal/metrics"
	"github.com/planfit/iris/internal/services/plan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultCacheTTL bounds how long a generated plan is served from cache.
const DefaultCacheTTL = 24 * time.Hour

// Cache is the slice of the plan cache the orchestrator needs.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (json.RawMessage, error)
	Set(ctx context.Context, fingerprint string, plan interface{}, ttl time.Duration) error
	Delete(ctx context.Context, fingerprint string) error
}

type inflight struct {
	done chan struct{}
	plan *plan.Plan
	err  error
}

// Orchestrator owns the plan generation pipeline: cache lookup, request
// coalescing, the provider call, and cache population. Concurrent requests
// for the same profile fingerprint share a single provider call.
type Orchestrator struct {
	provider Provider
	cache    Cache
	ttl      time.Duration

	mu       sync.Mutex
	inflight map[string]*inflight
}

// NewOrchestrator creates an orchestrator. The cache may be backed by a nil
// Redis client, in which case every request goes to the provider.
func NewOrchestrator(provider Provider, planCache Cache) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		cache:    planCache,
		ttl:      DefaultCacheTTL,
		inflight: make(map[string]*inflight),
	}
}

// Generate returns the plan for a profile, serving from cache when possible.
// A profile carrying a regenerate marker bypasses the cache read, invalidates
// the cached plan for the base profile, and has the marker stripped before
// reaching the provider. The result is cached under the base profile's
// fingerprint, so plain and regenerate requests resolve to the same entry.
func (o *Orchestrator) Generate(ctx context.Context, profile plan.UserProfile) (*plan.Plan, error) {
	startTime := time.Now()
	fingerprint := profile.Fingerprint()
	sanitized := profile.Sanitized()
	baseFingerprint := sanitized.Fingerprint()

	if profile.Regenerate == 0 {
		if raw, err := o.cache.Get(ctx, baseFingerprint); err == nil && raw != nil {
			metrics.PlanCacheHitsTotal.Add(ctx, 1)
			return plan.Normalize(raw), nil
		}
	} else {
		// Drop the stale plan up front so it cannot be served even if
		// the fresh generation fails.
		if err := o.cache.Delete(ctx, baseFingerprint); err != nil {
			slog.Warn("Failed to invalidate cached plan", "error", err)
		}
	}

	o.mu.Lock()
	if entry, ok := o.inflight[fingerprint]; ok {
		o.mu.Unlock()
		select {
		case <-entry.done:
			return entry.plan, entry.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	entry := &inflight{done: make(chan struct{})}
	o.inflight[fingerprint] = entry
	o.mu.Unlock()

	entry.plan, entry.err = o.provider.GeneratePlan(ctx, sanitized)

	if entry.err == nil {
		if err := o.cache.Set(ctx, baseFingerprint, entry.plan, o.ttl); err != nil {
			slog.Warn("Failed to cache generated plan", "error", err)
		}
	}

	o.mu.Lock()
	delete(o.inflight, fingerprint)
	o.mu.Unlock()
	close(entry.done)

	status := "success"
	if entry.err != nil {
		status = "error"
	}
	attrs := []attribute.KeyValue{attribute.String("status", status)}
	metrics.PlanGenerationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.PlanGenerationDuration.Record(ctx, time.Since(startTime).Seconds(), metric.WithAttributes(attrs...))

	return entry.plan, entry.err
}

// Seed populates the cache for a profile with an already-stored plan, so a
// subsequent Generate for the same profile short-circuits instead of paying
// for a duplicate provider call. Used when the user loads a saved plan.
func (o *Orchestrator) Seed(ctx context.Context, profile plan.UserProfile, raw json.RawMessage) *plan.Plan {
	normalized := plan.NormalizeRecord(raw)
	if err := o.cache.Set(ctx, profile.Sanitized().Fingerprint(), normalized, o.ttl); err != nil {
		slog.Warn("Failed to seed plan cache", "error", err)
	}
	return normalized
}
