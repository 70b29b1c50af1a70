// Package gemini implements ports.Generator on top of the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/pkg/domain"
	"google.golang.org/genai"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"
	// EnvAPIKey is the environment variable consulted when no key is given.
	EnvAPIKey = "SEGUE_GEMINI_API_KEY"
)

// ErrMissingAPIKey is returned by New when neither the config nor the environment carries a key.
var ErrMissingAPIKey = errors.New("gemini API key is required")

// contentModel is the subset of *genai.Models used by the generator.
type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator performs quiet generations with a Gemini model.
type Generator struct {
	models contentModel
	model  string
	logger *slog.Logger
}

type Option func(*Generator)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator backed by the Gemini API.
// An empty apiKey falls back to the SEGUE_GEMINI_API_KEY environment variable.
func New(ctx context.Context, apiKey string, opts ...Option) (*Generator, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGenerator(client.Models, opts...), nil
}

func newGenerator(models contentModel, opts ...Option) *Generator {
	g := &Generator{
		models: models,
		model:  DefaultModel,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.model
}

// GenerateQuiet sends the prompt as a single user turn and returns the response text.
// The result is never shown as a user-visible request, so QuietToLoud only affects logging.
func (g *Generator) GenerateQuiet(ctx context.Context, prompt domain.QuietPrompt) (any, error) {
	config := &genai.GenerateContentConfig{}
	if prompt.MaxTokens > 0 {
		config.MaxOutputTokens = int32(min(prompt.MaxTokens, math.MaxInt32))
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt.Prompt, genai.RoleUser),
	}

	g.logger.Debug("quiet generation", "model", g.model, "max_tokens", prompt.MaxTokens, "quiet_to_loud", prompt.QuietToLoud)
	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	return resp.Text(), nil
}
