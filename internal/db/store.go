package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("record not found")

// PlanRecord is a persisted fitness plan. plan_data and user_form_data are
// stored as jsonb and kept opaque here; shape reconciliation happens in the
// plan package.
type PlanRecord struct {
	ID             string          `json:"id"`
	FirebaseUserID string          `json:"firebase_user_id"`
	PlanData       json.RawMessage `json:"plan_data"`
	UserFormData   json.RawMessage `json:"user_form_data"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Preferences is the per-user preferences row.
type Preferences struct {
	FirebaseUserID string    `json:"firebase_user_id"`
	Theme          string    `json:"theme"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Trigger is a pending dashboard-to-home generation handoff.
type Trigger struct {
	ID             string          `json:"id"`
	FirebaseUserID string          `json:"firebase_user_id"`
	Payload        json.RawMessage `json:"payload"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Store wraps the connection pool with the application's query surface.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// UpsertUser creates or refreshes the users row for an external identity.
func (s *Store) UpsertUser(ctx context.Context, firebaseUID, email, displayName string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (firebase_uid, email, display_name, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), now(), now())
		ON CONFLICT (firebase_uid)
		DO UPDATE SET email = EXCLUDED.email,
		              display_name = COALESCE(EXCLUDED.display_name, users.display_name),
		              updated_at = now()`,
		firebaseUID, email, displayName)
	return err
}

// SavePlan inserts a new plan row. Plans are only created on an explicit
// user save action, never as a side effect of generation.
func (s *Store) SavePlan(ctx context.Context, firebaseUID string, planData, userFormData json.RawMessage) (*PlanRecord, error) {
	rec := &PlanRecord{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO fitness_plans (id, firebase_user_id, plan_data, user_form_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, firebase_user_id, plan_data, user_form_data, created_at, updated_at`,
		uuid.New().String(), firebaseUID, planData, userFormData,
	).Scan(&rec.ID, &rec.FirebaseUserID, &rec.PlanData, &rec.UserFormData, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UserPlans returns all plans owned by the user, newest first.
func (s *Store) UserPlans(ctx context.Context, firebaseUID string) ([]PlanRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, firebase_user_id, plan_data, user_form_data, created_at, updated_at
		FROM fitness_plans
		WHERE firebase_user_id = $1
		ORDER BY created_at DESC`,
		firebaseUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []PlanRecord{}
	for rows.Next() {
		var rec PlanRecord
		if err := rows.Scan(&rec.ID, &rec.FirebaseUserID, &rec.PlanData, &rec.UserFormData, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, rec)
	}
	return plans, rows.Err()
}

// GetPlan fetches a single plan scoped to its owner.
func (s *Store) GetPlan(ctx context.Context, planID, firebaseUID string) (*PlanRecord, error) {
	rec := &PlanRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, firebase_user_id, plan_data, user_form_data, created_at, updated_at
		FROM fitness_plans
		WHERE id = $1 AND firebase_user_id = $2`,
		planID, firebaseUID,
	).Scan(&rec.ID, &rec.FirebaseUserID, &rec.PlanData, &rec.UserFormData, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeletePlan removes a plan. The delete is scoped to the (id, owner) pair so
// a guessed id cannot remove another user's plan.
func (s *Store) DeletePlan(ctx context.Context, planID, firebaseUID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM fitness_plans WHERE id = $1 AND firebase_user_id = $2`,
		planID, firebaseUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPreferences returns the user's preferences row, or ErrNotFound.
func (s *Store) GetPreferences(ctx context.Context, firebaseUID string) (*Preferences, error) {
	p := &Preferences{}
	err := s.pool.QueryRow(ctx, `
		SELECT firebase_user_id, theme, updated_at
		FROM user_preferences
		WHERE firebase_user_id = $1`,
		firebaseUID,
	).Scan(&p.FirebaseUserID, &p.Theme, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SavePreferences upserts the single preferences row per user.
func (s *Store) SavePreferences(ctx context.Context, firebaseUID, theme string) (*Preferences, error) {
	p := &Preferences{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO user_preferences (firebase_user_id, theme, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (firebase_user_id)
		DO UPDATE SET theme = EXCLUDED.theme, updated_at = now()
		RETURNING firebase_user_id, theme, updated_at`,
		firebaseUID, theme,
	).Scan(&p.FirebaseUserID, &p.Theme, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SaveTrigger stores a pending dashboard handoff payload for the user.
func (s *Store) SaveTrigger(ctx context.Context, firebaseUID string, payload json.RawMessage) (*Trigger, error) {
	tr := &Trigger{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO dashboard_triggers (id, firebase_user_id, payload, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, firebase_user_id, payload, created_at`,
		uuid.New().String(), firebaseUID, payload,
	).Scan(&tr.ID, &tr.FirebaseUserID, &tr.Payload, &tr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// PopLatestTrigger returns and deletes the most recent pending trigger for
// the user. Returns ErrNotFound when none is pending.
func (s *Store) PopLatestTrigger(ctx context.Context, firebaseUID string) (*Trigger, error) {
	tr := &Trigger{}
	err := s.pool.QueryRow(ctx, `
		DELETE FROM dashboard_triggers
		WHERE id = (
			SELECT id FROM dashboard_triggers
			WHERE firebase_user_id = $1
			ORDER BY created_at DESC
			LIMIT 1
		)
		RETURNING id, firebase_user_id, payload, created_at`,
		firebaseUID,
	).Scan(&tr.ID, &tr.FirebaseUserID, &tr.Payload, &tr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// DeleteStaleTriggers removes triggers older than the given age. Used by the
// cleanup worker; a trigger the home page never picked up is dead weight.
func (s *Store) DeleteStaleTriggers(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM dashboard_triggers WHERE created_at < now() - $1::interval`,
		olderThan.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
