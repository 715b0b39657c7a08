package pipeline

import (
	"context"
	"sort"
	"strings"
	"time"

	"aiact/internal/domain"
)

// DefaultRetrievalLimit is the number of ranked chunks stitched into the
// extract.
const DefaultRetrievalLimit = 2

const chunkSeparator = "\n\n"

// RetrievalStep selects chunks by relevance and presents them in document
// order.
type RetrievalStep struct {
	Store   domain.TextRanker
	Limit   int
	Timeout time.Duration
	Retries int
}

func (s *RetrievalStep) Name() string { return "retrieval" }

// Run returns the top-ranked chunk texts sorted by chunk index and joined by a
// blank line. No match yields "".
func (s *RetrievalStep) Run(ctx context.Context, query string) (string, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}
	var results []domain.SearchResult
	err := attempt(ctx, s.Retries, s.Timeout, func(ctx context.Context) error {
		res, err := s.Store.RankedSearch(ctx, query, limit)
		if err != nil {
			return err
		}
		results = res
		return nil
	})
	if err != nil {
		return "", &RetrievalUnavailableError{Err: err}
	}
	return combine(results), nil
}

func combine(results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	chunks := make([]domain.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
	}
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, chunkSeparator)
}
