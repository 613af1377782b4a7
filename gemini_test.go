package reportgen

// Notes:
// - The Gemini client is pointed at an httptest server through GeminiConfig.BaseURL;
//   the handler answers every path with a canned generateContent response

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func fakeGemini(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.set(r.URL.Path, string(data))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

type recordedRequest struct {
	mu   sync.Mutex
	path string
	body string
}

func (r *recordedRequest) set(path, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path, r.body = path, body
}

func (r *recordedRequest) get() (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path, r.body
}

func TestNewGeminiGenerator_MissingKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"", "   "} {
		if _, err := NewGeminiGenerator(context.Background(), GeminiConfig{APIKey: key}); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("NewGeminiGenerator(%q) error = %v, want ErrMissingAPIKey", key, err)
		}
	}
}

func TestNewGeminiGenerator_DefaultModel(t *testing.T) {
	t.Parallel()

	g, err := NewGeminiGenerator(context.Background(), GeminiConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1/"})
	if err != nil {
		t.Fatalf("NewGeminiGenerator() error = %v", err)
	}
	if g.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", g.Model(), DefaultModel)
	}
}

func TestGeminiGenerator_Generate(t *testing.T) {
	t.Parallel()

	srv, rec := fakeGemini(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "## Introduction\nSolar panels convert light."}]}
		}]
	}`)

	g, err := NewGeminiGenerator(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		Model:      "gemini-test",
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewGeminiGenerator() error = %v", err)
	}

	got, err := g.Generate(context.Background(), "Write about solar")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "## Introduction\nSolar panels convert light." {
		t.Errorf("Generate() = %q", got)
	}

	path, body := rec.get()
	if !strings.Contains(path, "gemini-test:generateContent") {
		t.Errorf("request path = %q, want model endpoint", path)
	}
	if !strings.Contains(body, "Write about solar") {
		t.Errorf("request body = %q, want prompt", body)
	}
}

func TestGeminiGenerator_GenerateError(t *testing.T) {
	t.Parallel()

	srv, _ := fakeGemini(t, http.StatusTooManyRequests, `{"error": {"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}`)

	g, err := NewGeminiGenerator(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewGeminiGenerator() error = %v", err)
	}
	if _, err := g.Generate(context.Background(), "p"); err == nil {
		t.Error("Generate() error = nil, want API error")
	}
}

func TestGeminiGenerator_FallbackThroughConverter(t *testing.T) {
	t.Parallel()

	srv, _ := fakeGemini(t, http.StatusInternalServerError, `{"error": {"code": 500, "message": "boom", "status": "INTERNAL"}}`)
	g, err := NewGeminiGenerator(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewGeminiGenerator() error = %v", err)
	}

	conv := newTestConverter(t, WithGenerator(g))
	result, err := conv.Generate(context.Background(), Input{Title: "Outage"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Stats.Fallback {
		t.Error("Stats.Fallback = false, want true after API error")
	}
}
