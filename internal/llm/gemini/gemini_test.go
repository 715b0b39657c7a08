package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiact/internal/domain"
)

func TestGenerationConfig(t *testing.T) {
	cfg := generationConfig(domain.GenerationOptions{Temperature: 0.5, MaxTokens: 512})
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.5, *cfg.Temperature, 1e-6)
	assert.Equal(t, int32(512), cfg.MaxOutputTokens)

	cfg = generationConfig(domain.GenerationOptions{})
	assert.Equal(t, int32(0), cfg.MaxOutputTokens)
}

func TestNewClient_RequiresKey(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "")
	_, err := NewClient(context.Background(), Config{APIKeyEnv: "TEST_GEMINI_KEY"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_GEMINI_KEY")
}
