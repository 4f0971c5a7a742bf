// Package speech synthesizes spoken audio from plan text via ElevenLabs.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/planfit/iris/internal/errors"
	"github.com/planfit/iris/internal/httpclient"
	"github.com/planfit/iris/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	modelID        = "eleven_monolingual_v1"
)

// Client calls the ElevenLabs text-to-speech API.
type Client struct {
	apiKey  string
	voiceID string
	baseURL string
	client  *http.Client
}

// NewClient creates a speech client for the given voice.
func NewClient(apiKey, voiceID string) *Client {
	return &Client{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: defaultBaseURL,
		client:  httpclient.InstrumentedClient,
	}
}

type synthesizeRequest struct {
	Text          string `json:"text"`
	ModelID       string `json:"model_id"`
	VoiceSettings struct {
		Stability       float64 `json:"stability"`
		SimilarityBoost float64 `json:"similarity_boost"`
	} `json:"voice_settings"`
}

// Synthesize converts text to an audio/mpeg data URI.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", errors.NewSpeechError("speech synthesis is not configured", "SPEECH_NOT_CONFIGURED", nil)
	}

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		attrs := []attribute.KeyValue{attribute.String("provider", "elevenlabs")}
		metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}()

	req := synthesizeRequest{Text: text, ModelID: modelID}
	req.VoiceSettings.Stability = 0.5
	req.VoiceSettings.SimilarityBoost = 0.5

	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "ElevenLabs"), "POST", c.baseURL+"/text-to-speech/"+c.voiceID, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			return "", errors.NewSpeechError("invalid or insufficient-permission ElevenLabs key", "SPEECH_UNAUTHORIZED", nil)
		}
		return "", errors.NewSpeechError(
			fmt.Sprintf("speech synthesis failed (status %d): %s", resp.StatusCode, errorDetail(data)),
			"SPEECH_API_ERROR",
			nil,
		)
	}

	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

func errorDetail(body []byte) string {
	var payload struct {
		Detail struct {
			Message string `json:"message"`
		} `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail.Message != "" {
			return payload.Detail.Message
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(body)
}
