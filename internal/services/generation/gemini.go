package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/planfit/iris/internal/httpclient"
	"github.com/planfit/iris/internal/metrics"
	"github.com/planfit/iris/internal/services/ai"
	"github.com/planfit/iris/internal/services/plan"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider implements Provider against the Gemini REST API
type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
}

// NewGeminiProvider creates a new Gemini plan provider
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeneratePlan generates a fitness plan using Gemini. A transport or API
// failure is returned to the caller; a response that merely fails to parse
// is substituted with the fallback plan instead.
func (p *GeminiProvider) GeneratePlan(ctx context.Context, profile plan.UserProfile) (*plan.Plan, error) {
	text, err := p.generate(ctx, ai.BuildPlanPrompt(profile))
	if err != nil {
		return nil, err
	}
	return plan.ParseOrFallback(text), nil
}

// GenerateText generates free-form text using Gemini.
func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return p.generate(ctx, prompt)
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		attrs := []attribute.KeyValue{attribute.String("provider", "gemini")}
		metrics.AIGenerationDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}()

	req := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	body, _ := json.Marshal(req)
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Gemini"), "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpclient.InstrumentedClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", err
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}
