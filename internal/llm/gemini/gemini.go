package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/genai"

	"aiact/internal/domain"
)

const defaultModel = "gemini-2.0-flash"

// Client generates text through the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Config configures the Gemini backend.
type Config struct {
	APIKeyEnv string
	Model     string
}

// NewClient creates a Gemini client from an API key read from the
// environment.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Name returns the backend identifier.
func (c *Client) Name() string { return "gemini:" + c.model }

// Complete returns the concatenated text parts of the first candidate.
func (c *Client) Complete(ctx context.Context, prompt string, opts domain.GenerationOptions) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), generationConfig(opts))
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", errors.New("GenAI returned no candidates")
	}
	return result.Text(), nil
}

func generationConfig(opts domain.GenerationOptions) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	return cfg
}
