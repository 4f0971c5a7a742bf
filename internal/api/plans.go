package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/planfit/iris/internal/db"
	"github.com/planfit/iris/internal/middleware"
	"github.com/planfit/iris/internal/services/plan"
	"github.com/planfit/iris/internal/worker"
)

type UserInfo struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type SavePlanRequest struct {
	FirebaseUserID string          `json:"firebaseUserId"`
	PlanData       json.RawMessage `json:"planData,omitempty"`
	UserFormData   json.RawMessage `json:"userFormData,omitempty"`
	UserInfo       *UserInfo       `json:"userInfo,omitempty"`
}

type SavePlanResponse struct {
	Success bool           `json:"success"`
	Plan    *db.PlanRecord `json:"plan,omitempty"`
}

// requireOwner resolves the authenticated user and checks it against the
// firebaseUserId named in the request. A mismatch is a 403, not a 404: the
// caller is authenticated, just not the owner.
func (s *Server) requireOwner(w http.ResponseWriter, r *http.Request, firebaseUserID string) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	if firebaseUserID != "" && firebaseUserID != userID {
		respondError(w, http.StatusForbidden, "Forbidden")
		return "", false
	}
	return userID, true
}

func (s *Server) HandleSavePlan(w http.ResponseWriter, r *http.Request) {
	var req SavePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FirebaseUserID == "" {
		respondError(w, http.StatusBadRequest, "firebaseUserId is required")
		return
	}

	userID, ok := s.requireOwner(w, r, req.FirebaseUserID)
	if !ok {
		return
	}

	// Identity sync is independent of plan saving and best-effort: a
	// failed upsert is logged and retried in the background, never
	// surfaced.
	if req.UserInfo != nil {
		if err := s.store.UpsertUser(r.Context(), userID, req.UserInfo.Email, req.UserInfo.DisplayName); err != nil {
			slog.Error("User upsert failed, enqueueing background sync", "error", err)
			s.enqueueUserSync(userID, req.UserInfo)
		}
	}

	resp := SavePlanResponse{Success: true}

	if req.PlanData != nil {
		rec, err := s.store.SavePlan(r.Context(), userID, req.PlanData, req.UserFormData)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to save plan")
			return
		}
		resp.Plan = rec
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) enqueueUserSync(userID string, info *UserInfo) {
	if s.asynqClient == nil {
		return
	}
	task, err := worker.NewSyncUserTask(worker.SyncUserPayload{
		FirebaseUID: userID,
		Email:       info.Email,
		DisplayName: info.DisplayName,
	})
	if err != nil {
		slog.Error("Failed to create sync task", "error", err)
		return
	}
	if _, err := s.asynqClient.Enqueue(task); err != nil {
		slog.Error("Failed to enqueue sync task", "error", err)
	}
}

type SavedPlan struct {
	ID           string          `json:"id"`
	Plan         *plan.Plan      `json:"plan"`
	UserFormData json.RawMessage `json:"userFormData,omitempty"`
	CreatedAt    string          `json:"createdAt"`
}

type UserPlansResponse struct {
	Plans []SavedPlan `json:"plans"`
}

func (s *Server) HandleUserPlans(w http.ResponseWriter, r *http.Request) {
	requestedID := r.URL.Query().Get("userId")
	if requestedID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	userID, ok := s.requireOwner(w, r, requestedID)
	if !ok {
		return
	}

	records, err := s.store.UserPlans(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch plans")
		return
	}

	resp := UserPlansResponse{Plans: make([]SavedPlan, len(records))}
	for i, rec := range records {
		// One shared normalization routine serves both freshly generated
		// and stored plans.
		resp.Plans[i] = SavedPlan{
			ID:           rec.ID,
			Plan:         plan.NormalizeRecord(rec.PlanData),
			UserFormData: rec.UserFormData,
			CreatedAt:    rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}

		// Seed the generation cache so re-submitting the stored profile
		// does not pay for a duplicate provider call.
		if len(rec.UserFormData) > 0 {
			var profile plan.UserProfile
			if err := json.Unmarshal(rec.UserFormData, &profile); err == nil {
				s.plans.Seed(r.Context(), profile, rec.PlanData)
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

type DeletePlanRequest struct {
	PlanID         string `json:"planId"`
	FirebaseUserID string `json:"firebaseUserId"`
}

type DeletePlanResponse struct {
	Success         bool `json:"success"`
	ConfirmRequired bool `json:"confirmRequired,omitempty"`
}

// HandleDeletePlan is two-step: the first request arms a short confirmation
// window and reports confirmRequired; a second request within the window
// performs the delete. The delete itself is scoped to (plan, owner).
func (s *Server) HandleDeletePlan(w http.ResponseWriter, r *http.Request) {
	var req DeletePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.PlanID == "" {
		respondError(w, http.StatusBadRequest, "planId is required")
		return
	}

	userID, ok := s.requireOwner(w, r, req.FirebaseUserID)
	if !ok {
		return
	}

	// Check ownership before arming the confirmation window, so a missing
	// or foreign plan is a 404 on the first request.
	if _, err := s.store.GetPlan(r.Context(), req.PlanID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Plan not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete plan")
		return
	}

	if !s.confirm.Confirm(userID, req.PlanID) {
		respondJSON(w, http.StatusOK, DeletePlanResponse{Success: false, ConfirmRequired: true})
		return
	}

	if err := s.store.DeletePlan(r.Context(), req.PlanID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Plan not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete plan")
		return
	}

	respondJSON(w, http.StatusOK, DeletePlanResponse{Success: true})
}

type PreferencesResponse struct {
	Preferences *db.Preferences `json:"preferences"`
}

func (s *Server) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	requestedID := r.URL.Query().Get("userId")
	userID, ok := s.requireOwner(w, r, requestedID)
	if !ok {
		return
	}

	prefs, err := s.store.GetPreferences(r.Context(), userID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, "Failed to fetch preferences")
		return
	}

	respondJSON(w, http.StatusOK, PreferencesResponse{Preferences: prefs})
}

type SavePreferencesRequest struct {
	FirebaseUserID string `json:"firebaseUserId"`
	Preferences    struct {
		Theme string `json:"theme"`
	} `json:"preferences"`
}

type SavePreferencesResponse struct {
	Success bool            `json:"success"`
	Saved   *db.Preferences `json:"saved,omitempty"`
}

func (s *Server) HandleSavePreferences(w http.ResponseWriter, r *http.Request) {
	var req SavePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := s.requireOwner(w, r, req.FirebaseUserID)
	if !ok {
		return
	}

	saved, err := s.store.SavePreferences(r.Context(), userID, req.Preferences.Theme)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	respondJSON(w, http.StatusOK, SavePreferencesResponse{Success: true, Saved: saved})
}

type SaveTriggerRequest struct {
	FirebaseUserID string          `json:"firebaseUserId"`
	Payload        json.RawMessage `json:"payload"`
}

type TriggerResponse struct {
	Success bool        `json:"success"`
	Trigger *db.Trigger `json:"trigger,omitempty"`
}

func (s *Server) HandleSaveTrigger(w http.ResponseWriter, r *http.Request) {
	var req SaveTriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Payload == nil {
		respondError(w, http.StatusBadRequest, "payload is required")
		return
	}

	userID, ok := s.requireOwner(w, r, req.FirebaseUserID)
	if !ok {
		return
	}

	trigger, err := s.store.SaveTrigger(r.Context(), userID, req.Payload)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save trigger")
		return
	}

	respondJSON(w, http.StatusOK, TriggerResponse{Success: true, Trigger: trigger})
}

// HandlePopTrigger returns and consumes the latest pending trigger. No
// pending trigger is a success with a null trigger, not an error.
func (s *Server) HandlePopTrigger(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireOwner(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	trigger, err := s.store.PopLatestTrigger(r.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondJSON(w, http.StatusOK, TriggerResponse{Success: true})
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch trigger")
		return
	}

	respondJSON(w, http.StatusOK, TriggerResponse{Success: true, Trigger: trigger})
}
