package pipeline

import (
	"context"
	"strings"
	"sync"

	"aiact/internal/domain"
)

const (
	stageSummarize = "summarize"
	stageClassify  = "classify"
	stageGuide     = "guide"
)

func stageOf(prompt string) string {
	switch {
	case strings.Contains(prompt, "Detailed summary:"):
		return stageSummarize
	case strings.Contains(prompt, "Answer, which risk category"):
		return stageClassify
	case strings.Contains(prompt, "Compliance Requirements:"):
		return stageGuide
	default:
		return ""
	}
}

// fakeGenerator answers per stage and counts calls.
type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   map[string]int
	prompts []string
	block   bool
}

func newFakeGenerator(riskLevel string) *fakeGenerator {
	return &fakeGenerator{
		replies: map[string]string{
			stageSummarize: "- filters incoming emails\n",
			stageClassify:  riskLevel,
			stageGuide:     "1. Keep records.\n",
		},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Complete(ctx context.Context, prompt string, _ domain.GenerationOptions) (string, error) {
	stage := stageOf(prompt)
	f.mu.Lock()
	f.calls[stage]++
	f.prompts = append(f.prompts, prompt)
	block := f.block
	err := f.errs[stage]
	reply := f.replies[stage]
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (f *fakeGenerator) count(stage string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[stage]
}

func (f *fakeGenerator) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeRanker returns fixed results in the given (relevance) order.
type fakeRanker struct {
	mu        sync.Mutex
	results   []domain.SearchResult
	err       error
	transient error
	failTimes int
	calls     int
	lastQuery string
	lastLimit int
}

func (r *fakeRanker) RankedSearch(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastQuery = query
	r.lastLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	if r.failTimes > 0 {
		r.failTimes--
		return nil, r.transient
	}
	if limit < len(r.results) {
		return r.results[:limit], nil
	}
	return r.results, nil
}

func (r *fakeRanker) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func chunks(pairs ...any) []domain.SearchResult {
	var out []domain.SearchResult
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.SearchResult{Chunk: domain.Chunk{Index: pairs[i].(int), Text: pairs[i+1].(string)}})
	}
	return out
}
