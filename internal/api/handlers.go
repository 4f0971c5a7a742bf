package api

import (
	"encoding/json"
	"net/http"

	"github.com/planfit/iris/internal/middleware"
	"github.com/planfit/iris/internal/services/plan"
	"github.com/planfit/iris/internal/validation"
)

func (s *Server) HandleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var profile plan.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if result := validation.ValidateProfile(profile); !result.IsValid {
		respondError(w, http.StatusBadRequest, result.Reason)
		return
	}

	generated, err := s.plans.Generate(r.Context(), profile)
	if err != nil {
		// The provider's message is what the client surfaces with its
		// retry affordance.
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, generated)
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

type GenerateImageResponse struct {
	Image string `json:"image"`
}

func (s *Server) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Prompt == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	uri, err := s.images.Generate(r.Context(), req.Prompt, req.Type)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, GenerateImageResponse{Image: uri})
}

type TextToSpeechRequest struct {
	Text string `json:"text"`
}

type TextToSpeechResponse struct {
	Audio string `json:"audio"`
}

func (s *Server) HandleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req TextToSpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid text")
		return
	}

	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Invalid text")
		return
	}

	audio, err := s.speech.Synthesize(r.Context(), req.Text)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, TextToSpeechResponse{Audio: audio})
}

type MotivationResponse struct {
	Quote string `json:"quote"`
}

// HandleMotivation always answers 200; quote generation falls back
// internally.
func (s *Server) HandleMotivation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MotivationResponse{Quote: s.quotes.Quote(r.Context())})
}
