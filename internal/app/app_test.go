package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"aiact/internal/config"
	"aiact/internal/domain"
	"aiact/internal/pipeline"
)

type echoGenerator struct{}

func (echoGenerator) Name() string { return "echo" }

func (echoGenerator) Complete(_ context.Context, prompt string, _ domain.GenerationOptions) (string, error) {
	switch {
	case strings.Contains(prompt, "Detailed summary:"):
		return "- recruitment CV ranking", nil
	case strings.Contains(prompt, "Answer, which risk category"):
		return "High risk", nil
	default:
		return "Register the system.", nil
	}
}

func testConfig(t *testing.T, retrieval, conversation string) *config.AppConfig {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.Retrieval.Type = retrieval
	cfg.Retrieval.Path = filepath.Join(dir, "index.db")
	cfg.Conversation.Type = conversation
	cfg.Conversation.Path = filepath.Join(dir, "conv.db")

	src := filepath.Join(dir, "act.txt")
	require.NoError(t, os.WriteFile(src, []byte(
		"Article 5. Prohibited practices.\fAnnex III. Employment, recruitment and CV ranking systems are high-risk."), 0o644))
	cfg.Retrieval.Sources = []string{src}
	return cfg
}

func TestAssemble_EndToEnd(t *testing.T) {
	for _, tc := range []struct{ retrieval, conversation string }{
		{"memory", "memory"},
		{"sqlite", "sqlite"},
	} {
		t.Run(tc.retrieval, func(t *testing.T) {
			cfg := testConfig(t, tc.retrieval, tc.conversation)
			a, err := Assemble(context.Background(), cfg, echoGenerator{}, zaptest.NewLogger(t))
			require.NoError(t, err)
			defer func() { assert.NoError(t, a.Close()) }()

			out, err := a.Compliance.Analyze(context.Background(), pipeline.Request{ProjectDescription: "We rank CVs."})
			require.NoError(t, err)
			assert.Equal(t, pipeline.FullyProcessed, out.Terminal)
			assert.Contains(t, out.Result.AiactExtract, "Annex III")
			assert.Equal(t, "Register the system.", out.Result.ComplianceGuide)

			reply, err := a.Chat.Reply(context.Background(), "", "hello")
			require.NoError(t, err)
			assert.NotEmpty(t, reply.SessionID)
		})
	}
}

func TestAssemble_BadSource(t *testing.T) {
	cfg := testConfig(t, "memory", "memory")
	cfg.Retrieval.Sources = []string{filepath.Join(t.TempDir(), "*.txt")}
	_, err := Assemble(context.Background(), cfg, echoGenerator{}, nil)
	assert.ErrorContains(t, err, "ingest sources")
}

func TestFactories_UnknownTypes(t *testing.T) {
	_, err := NewTextStore(config.RetrievalConfig{Type: "mongo"})
	assert.Error(t, err)
	_, err = NewConversationStore(context.Background(), config.ConversationConfig{Type: "mongo"})
	assert.Error(t, err)
	_, err = NewConversationStore(context.Background(), config.ConversationConfig{Type: "redis"})
	assert.Error(t, err)
	_, err = NewGenerator(context.Background(), config.GenerationConfig{Type: "claude"})
	assert.Error(t, err)
	_, err = NewGenerator(context.Background(), config.GenerationConfig{Type: "openai"})
	assert.Error(t, err)
}

func TestNewGenerator(t *testing.T) {
	t.Setenv("AIACT_TEST_OPENAI_KEY", "sk-test")
	gen, err := NewGenerator(context.Background(), config.GenerationConfig{
		Type:        "openai",
		TimeoutSecs: 5,
		OpenAI:      &config.OpenAIConfig{APIKeyEnv: "AIACT_TEST_OPENAI_KEY", Model: "gpt-4o-mini"},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o-mini", gen.Name())

	t.Setenv("AIACT_TEST_GEMINI_KEY", "")
	_, err = NewGenerator(context.Background(), config.GenerationConfig{
		Type:   "gemini",
		Gemini: &config.GeminiConfig{APIKeyEnv: "AIACT_TEST_GEMINI_KEY"},
	})
	assert.ErrorContains(t, err, "AIACT_TEST_GEMINI_KEY")
}
