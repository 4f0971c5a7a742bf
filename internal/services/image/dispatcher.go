package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/planfit/iris/internal/httpclient"
	"github.com/planfit/iris/internal/metrics"
	"github.com/planfit/iris/internal/services/ai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models"

// defaultLoadingWait is assumed when a loading response carries no
// estimated_time hint.
const defaultLoadingWait = 20 * time.Second

// Dispatcher tries an ordered list of candidate image models until one
// produces an image. An API key is optional; anonymous access is rate
// limited and some models reject it outright, which the dispatcher treats
// as a cue to advance rather than fail.
type Dispatcher struct {
	apiKey  string
	models  []string
	baseURL string
	client  *http.Client
}

// NewDispatcher creates a dispatcher over the given candidate models, in
// preference order.
func NewDispatcher(apiKey string, models []string) *Dispatcher {
	return &Dispatcher{
		apiKey:  apiKey,
		models:  models,
		baseURL: defaultBaseURL,
		client:  httpclient.InstrumentedClient,
	}
}

type generateParams struct {
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

type generateRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters generateParams `json:"parameters"`
}

// Generate produces a PNG data URI for the named item. Category selects the
// prompt styling ("exercise" or "food").
func (d *Dispatcher) Generate(ctx context.Context, name, category string) (string, error) {
	prompt := ai.BuildImagePrompt(name, category)

	steps := 20
	if d.apiKey != "" {
		steps = 25
	}
	body, _ := json.Marshal(generateRequest{
		Inputs: prompt,
		Parameters: generateParams{
			NumInferenceSteps: steps,
			GuidanceScale:     7.5,
		},
	})

	var lastErr error
	for i, model := range d.models {
		last := i == len(d.models)-1

		uri, err := d.tryModel(ctx, model, body)
		if err == nil {
			metrics.ImageGenerationsTotal.Add(ctx, 1, metric.WithAttributes(
				attribute.String("model", model),
				attribute.String("status", "success"),
			))
			slog.Info("Generated image", "model", model, "category", category)
			return uri, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		metrics.ImageGenerationsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("model", model),
			attribute.String("status", "error"),
		))

		switch {
		case isTerminal(err):
			// Unavailable-after-retry and credential failures end the
			// whole request, not just this candidate.
			return "", err
		case errRateLimited(err):
			slog.Info("Image model rate limited, trying next", "model", model)
		case errAnonRefused(err):
			slog.Info("Image model refused anonymous access, trying next", "model", model)
		case last:
			return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		default:
			slog.Info("Image model failed, trying next", "model", model, "error", err)
		}
		lastErr = err
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: last error: %v", ErrAllModelsFailed, lastErr)
	}
	return "", ErrAllModelsFailed
}

// errRateLimit is an internal marker for advancing past a rate-limited
// candidate.
type rateLimitError struct{ model string }

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("model %s rate limited", e.model)
}

func errRateLimited(err error) bool {
	_, ok := err.(*rateLimitError)
	return ok
}

// anonAuthError marks a candidate that refused keyless access; like a rate
// limit, it always advances the chain, even from the last candidate.
type anonAuthError struct {
	model  string
	status int
}

func (e *anonAuthError) Error() string {
	return fmt.Sprintf("model %s refused anonymous access (status %d)", e.model, e.status)
}

func errAnonRefused(err error) bool {
	_, ok := err.(*anonAuthError)
	return ok
}

func isTerminal(err error) bool {
	return errors.Is(err, ErrModelUnavailable) || errors.Is(err, ErrInvalidCredentials)
}

func (d *Dispatcher) tryModel(ctx context.Context, model string, body []byte) (string, error) {
	resp, err := d.call(ctx, model, body)
	if err != nil {
		return "", err
	}

	if resp.status == http.StatusServiceUnavailable {
		wait := loadingWait(resp.body)
		slog.Info("Image model is loading, waiting before retry",
			"model", model,
			"wait", wait)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}

		retry, err := d.call(ctx, model, body)
		if err != nil {
			return "", err
		}
		if retry.status != http.StatusOK {
			return "", fmt.Errorf("%w: model %s still loading after %s", ErrModelUnavailable, model, wait)
		}
		return dataURI(retry)
	}

	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden {
		if d.apiKey != "" {
			return "", fmt.Errorf("%w: status %d from model %s", ErrInvalidCredentials, resp.status, model)
		}
		// Anonymous access is expected to be refused by some models.
		return "", &anonAuthError{model: model, status: resp.status}
	}

	if resp.status == http.StatusTooManyRequests {
		return "", &rateLimitError{model: model}
	}

	if resp.status != http.StatusOK {
		return "", fmt.Errorf("image generation failed for %s: status %d: %s", model, resp.status, apiErrorMessage(resp.body))
	}

	return dataURI(resp)
}

type apiResponse struct {
	status      int
	contentType string
	body        []byte
}

func (d *Dispatcher) call(ctx context.Context, model string, body []byte) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "HuggingFace"), "POST", d.baseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	startTime := time.Now()
	resp, err := d.client.Do(req)
	duration := time.Since(startTime).Seconds()
	attrs := []attribute.KeyValue{attribute.String("provider", "huggingface")}
	metrics.ExternalAPIDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
	metrics.ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &apiResponse{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

// loadingWait extracts the estimated_time hint from a 503 body.
func loadingWait(body []byte) time.Duration {
	var hint struct {
		EstimatedTime float64 `json:"estimated_time"`
	}
	if err := json.Unmarshal(body, &hint); err == nil && hint.EstimatedTime > 0 {
		return time.Duration(hint.EstimatedTime * float64(time.Second))
	}
	return defaultLoadingWait
}

func apiErrorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(body)
}

// dataURI converts a successful response into a data URI. A 200 whose body
// is JSON with an error field is still a failure.
func dataURI(resp *apiResponse) (string, error) {
	if strings.Contains(resp.contentType, "application/json") {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(resp.body, &payload); err == nil && payload.Error != "" {
			return "", fmt.Errorf("image generation failed: %s", payload.Error)
		}
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(resp.body), nil
}
