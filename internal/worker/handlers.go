package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// staleTriggerAge is how long a dashboard trigger may sit unconsumed before
// cleanup removes it.
const staleTriggerAge = 24 * time.Hour

// Store is the subset of the database layer the worker needs.
type Store interface {
	UpsertUser(ctx context.Context, firebaseUID, email, displayName string) error
	DeleteStaleTriggers(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Processor handles background tasks against the database.
type Processor struct {
	store   Store
	metrics *Metrics
}

// NewProcessor creates a task processor
func NewProcessor(store Store, metrics *Metrics) *Processor {
	return &Processor{
		store:   store,
		metrics: metrics,
	}
}

// HandleSyncUser upserts a user identity row. Retried by asynq on failure.
func (p *Processor) HandleSyncUser(ctx context.Context, t *asynq.Task) error {
	startTime := time.Now()

	var payload SyncUserPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.FirebaseUID == "" {
		// Nothing to sync; do not retry.
		slog.Warn("Sync task without firebase uid, dropping")
		return nil
	}

	err := p.store.UpsertUser(ctx, payload.FirebaseUID, payload.Email, payload.DisplayName)
	p.recordJob(ctx, TypeSyncUser, err, startTime)
	if err != nil {
		slog.Error("User sync failed", "firebase_uid", payload.FirebaseUID, "error", err)
		return err
	}

	slog.Info("Synced user", "firebase_uid", payload.FirebaseUID)
	return nil
}

// HandleCleanupTriggers removes dashboard triggers older than the stale age.
func (p *Processor) HandleCleanupTriggers(ctx context.Context, t *asynq.Task) error {
	startTime := time.Now()

	deleted, err := p.store.DeleteStaleTriggers(ctx, staleTriggerAge)
	p.recordJob(ctx, TypeCleanupTriggers, err, startTime)
	if err != nil {
		slog.Error("Trigger cleanup failed", "error", err)
		return err
	}

	if deleted > 0 {
		slog.Info("Cleaned up stale dashboard triggers", "deleted", deleted)
	}
	return nil
}

func (p *Processor) recordJob(ctx context.Context, jobType string, err error, startTime time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.metrics.RecordJob(ctx, jobType, status, time.Since(startTime).Seconds())
}
