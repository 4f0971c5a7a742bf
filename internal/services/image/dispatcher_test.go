package image

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/planfit/iris/internal/metrics"
)

func TestMain(m *testing.M) {
	if err := metrics.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type scriptedResponse struct {
	status      int
	contentType string
	body        string
}

// scriptedServer serves queued responses per model path and records the
// order of requests.
type scriptedServer struct {
	mu       sync.Mutex
	scripts  map[string][]scriptedResponse
	requests []string
	server   *httptest.Server
}

func newScriptedServer(scripts map[string][]scriptedResponse) *scriptedServer {
	s := &scriptedServer{scripts: scripts}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model := strings.TrimPrefix(r.URL.Path, "/")
		s.mu.Lock()
		s.requests = append(s.requests, model)
		queue := s.scripts[model]
		var resp scriptedResponse
		if len(queue) > 0 {
			resp = queue[0]
			s.scripts[model] = queue[1:]
		} else {
			resp = scriptedResponse{status: http.StatusOK, contentType: "image/png", body: "fakepng"}
		}
		s.mu.Unlock()

		if resp.contentType != "" {
			w.Header().Set("Content-Type", resp.contentType)
		}
		w.WriteHeader(resp.status)
		w.Write([]byte(resp.body))
	}))
	return s
}

func (s *scriptedServer) requestLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func newTestDispatcher(apiKey string, server *scriptedServer, models ...string) *Dispatcher {
	d := NewDispatcher(apiKey, models)
	d.baseURL = server.server.URL
	return d
}

func TestDispatcher_FirstModelSucceeds(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusOK, contentType: "image/png", body: "fakepng"}},
	})
	defer s.server.Close()

	d := newTestDispatcher("key", s, "model-a", "model-b")
	uri, err := d.Generate(context.Background(), "Push-ups", "exercise")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("expected png data URI, got %q", uri[:min(len(uri), 40)])
	}
	if log := s.requestLog(); len(log) != 1 || log[0] != "model-a" {
		t.Errorf("expected a single call to model-a, got %v", log)
	}
}

func TestDispatcher_RateLimitAdvances(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusTooManyRequests, body: "slow down"}},
		"model-b": {{status: http.StatusOK, contentType: "image/png", body: "fakepng"}},
	})
	defer s.server.Close()

	d := newTestDispatcher("key", s, "model-a", "model-b")
	if _, err := d.Generate(context.Background(), "Push-ups", "exercise"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log := s.requestLog(); len(log) != 2 || log[1] != "model-b" {
		t.Errorf("expected fallthrough to model-b, got %v", log)
	}
}

func TestDispatcher_LoadingRetriesOnce(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {
			{status: http.StatusServiceUnavailable, contentType: "application/json", body: `{"estimated_time": 0.01}`},
			{status: http.StatusOK, contentType: "image/png", body: "fakepng"},
		},
	})
	defer s.server.Close()

	d := newTestDispatcher("key", s, "model-a", "model-b")
	uri, err := d.Generate(context.Background(), "Push-ups", "exercise")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("expected data URI, got %q", uri)
	}
	if log := s.requestLog(); len(log) != 2 || log[0] != "model-a" || log[1] != "model-a" {
		t.Errorf("expected exactly one retry of model-a, got %v", log)
	}
}

func TestDispatcher_LoadingRetryFailureIsTerminal(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {
			{status: http.StatusServiceUnavailable, contentType: "application/json", body: `{"estimated_time": 0.01}`},
			{status: http.StatusServiceUnavailable, contentType: "application/json", body: `{"estimated_time": 0.01}`},
		},
	})
	defer s.server.Close()

	d := newTestDispatcher("key", s, "model-a", "model-b")
	_, err := d.Generate(context.Background(), "Push-ups", "exercise")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	// Bounded retry: model-b must never be consulted.
	for _, model := range s.requestLog() {
		if model == "model-b" {
			t.Error("retry failure must not fall through to the next candidate")
		}
	}
}

func TestDispatcher_AuthFailureWithKey(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusUnauthorized, body: "bad key"}},
	})
	defer s.server.Close()

	d := newTestDispatcher("configured-key", s, "model-a", "model-b")
	_, err := d.Generate(context.Background(), "Push-ups", "exercise")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if log := s.requestLog(); len(log) != 1 {
		t.Errorf("credential failure must not try other candidates, got %v", log)
	}
}

func TestDispatcher_AuthFailureWithoutKeyAdvances(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusForbidden, body: "no anonymous access"}},
		"model-b": {{status: http.StatusOK, contentType: "image/png", body: "fakepng"}},
	})
	defer s.server.Close()

	d := newTestDispatcher("", s, "model-a", "model-b")
	if _, err := d.Generate(context.Background(), "Push-ups", "exercise"); err != nil {
		t.Fatalf("anonymous auth refusal should advance to next model, got %v", err)
	}
}

func TestDispatcher_AuthFailureWithoutKeyOnLastModelExhausts(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusForbidden, body: "no anonymous access"}},
		"model-b": {{status: http.StatusUnauthorized, body: "no anonymous access"}},
	})
	defer s.server.Close()

	// Keyless refusal advances the chain even from the last candidate, so
	// running out of candidates is exhaustion, not a generation failure.
	d := newTestDispatcher("", s, "model-a", "model-b")
	_, err := d.Generate(context.Background(), "Push-ups", "exercise")
	if !errors.Is(err, ErrAllModelsFailed) {
		t.Fatalf("expected ErrAllModelsFailed, got %v", err)
	}
}

func TestDispatcher_LastModelErrorIsGenerationFailed(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusBadRequest, contentType: "application/json", body: `{"error": "bad prompt"}`}},
		"model-b": {{status: http.StatusBadRequest, contentType: "application/json", body: `{"error": "bad prompt"}`}},
	})
	defer s.server.Close()

	d := newTestDispatcher("key", s, "model-a", "model-b")
	_, err := d.Generate(context.Background(), "Push-ups", "exercise")
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed on last candidate, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad prompt") {
		t.Errorf("expected last error message to be carried, got %v", err)
	}
}

func TestDispatcher_AllModelsRateLimited(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusTooManyRequests}},
		"model-b": {{status: http.StatusTooManyRequests}},
	})
	defer s.server.Close()

	d := newTestDispatcher("key", s, "model-a", "model-b")
	_, err := d.Generate(context.Background(), "Push-ups", "exercise")
	if !errors.Is(err, ErrAllModelsFailed) {
		t.Fatalf("expected ErrAllModelsFailed, got %v", err)
	}
}

func TestDispatcher_JSONErrorBodyOn200Advances(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusOK, contentType: "application/json", body: `{"error": "model misbehaved"}`}},
		"model-b": {{status: http.StatusOK, contentType: "image/png", body: "fakepng"}},
	})
	defer s.server.Close()

	d := newTestDispatcher("key", s, "model-a", "model-b")
	if _, err := d.Generate(context.Background(), "Push-ups", "exercise"); err != nil {
		t.Fatalf("JSON error body on 200 should advance, got %v", err)
	}
}

func TestDispatcher_WaitIsCancellable(t *testing.T) {
	s := newScriptedServer(map[string][]scriptedResponse{
		"model-a": {{status: http.StatusServiceUnavailable, contentType: "application/json", body: `{"estimated_time": 30}`}},
	})
	defer s.server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	d := newTestDispatcher("key", s, "model-a")

	done := make(chan error, 1)
	go func() {
		_, err := d.Generate(ctx, "Push-ups", "exercise")
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled wait did not unblock the dispatcher")
	}
}
