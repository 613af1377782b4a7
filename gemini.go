package reportgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when GeminiConfig.Model is empty.
const DefaultModel = "gemini-1.5-flash"

// ErrMissingAPIKey is returned by NewGeminiGenerator without a key.
var ErrMissingAPIKey = errors.New("missing Gemini API key")

// GeminiConfig configures a GeminiGenerator.
type GeminiConfig struct {
	APIKey     string
	Model      string        // empty = DefaultModel
	Timeout    time.Duration // per Generate call, 0 = caller deadline only
	HTTPClient *http.Client  // nil = library default
	BaseURL    string        // empty = public Gemini endpoint
}

// GeminiGenerator produces report text with the Gemini API.
// The client is built once and is safe for concurrent use.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator bound to one API key.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model, timeout: cfg.Timeout}, nil
}

// Model returns the model name requests are sent to.
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Generate sends prompt as a single user turn and returns the response text.
// One attempt, no retries.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
