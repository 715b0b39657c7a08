package service

import (
	"context"
	"strings"
	"sync"

	"aiact/internal/domain"
)

// scriptedGenerator answers by matching a marker in the prompt.
type scriptedGenerator struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	prompts []string
	closed  bool
}

func newScriptedGenerator(risk string) *scriptedGenerator {
	return &scriptedGenerator{replies: map[string]string{
		"Detailed summary:":           "- filters incoming emails",
		"Answer, which risk category": risk,
		"Compliance Requirements:":    "1. Inform users.",
		"Assistant:":                  " Noted. ",
	}}
}

func (g *scriptedGenerator) Name() string { return "scripted" }

func (g *scriptedGenerator) Complete(_ context.Context, prompt string, _ domain.GenerationOptions) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	for _, marker := range []string{"Detailed summary:", "Answer, which risk category", "Compliance Requirements:", "Assistant:"} {
		if strings.Contains(prompt, marker) {
			return g.replies[marker], nil
		}
	}
	return "", nil
}

func (g *scriptedGenerator) Close() error {
	g.closed = true
	return nil
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *scriptedGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

type countingRanker struct {
	domain.TextRanker
	mu    sync.Mutex
	calls int
}

func (r *countingRanker) RankedSearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.TextRanker.RankedSearch(ctx, query, limit)
}
