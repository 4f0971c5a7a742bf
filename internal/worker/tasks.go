package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeSyncUser        = "sync:user"
	TypeCleanupTriggers = "cleanup:triggers"
)

// SyncUserPayload carries the identity fields for a background user upsert.
// The sync is best-effort: a lost task only delays the next upsert.
type SyncUserPayload struct {
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// NewSyncUserTask creates a new user identity sync task
func NewSyncUserTask(payload SyncUserPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSyncUser, data, asynq.MaxRetry(3)), nil
}

// NewCleanupTriggersTask creates a task that removes stale dashboard triggers
func NewCleanupTriggersTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupTriggers, nil)
}
