package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"aiact/internal/domain"
	"aiact/internal/embedding/tfidf"
)

const minScore = 1e-9

// Store is an in-memory ranking store. Chunks are scored by TF-IDF cosine
// similarity; when the query shares no vocabulary with the corpus it falls
// back to overlap of truncated word stems, so "chatbot" still finds
// "chatbots". Chunks with no overlap at all are never returned.
type Store struct {
	mu       sync.RWMutex
	embedder *tfidf.Embedder
	chunks   []domain.Chunk
	vectors  [][]float64
}

func NewStore() *Store { return &Store{embedder: tfidf.NewEmbedder()} }

// Clear drops every chunk.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.vectors = nil
	return nil
}

// Upsert adds chunks, replacing any with the same ChunkID, and rebuilds the
// TF-IDF model over the whole corpus. On error the store is unchanged.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := make([]domain.Chunk, len(s.chunks), len(s.chunks)+len(chunks))
	copy(merged, s.chunks)
	pos := make(map[string]int, len(merged))
	for i, c := range merged {
		pos[c.ChunkID] = i
	}
	for _, c := range chunks {
		if i, ok := pos[c.ChunkID]; ok && c.ChunkID != "" {
			merged[i] = c
			continue
		}
		pos[c.ChunkID] = len(merged)
		merged = append(merged, c)
	}
	return s.swap(ctx, merged)
}

// Replace makes chunks the whole corpus. On error the previous corpus stays
// searchable.
func (s *Store) Replace(ctx context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(ctx, append([]domain.Chunk(nil), chunks...))
}

// swap builds a fresh model for chunks and installs it only when every
// vector was computed. Callers hold mu.
func (s *Store) swap(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(chunks) == 0 {
		s.chunks, s.vectors = nil, nil
		return nil
	}
	embedder := tfidf.NewEmbedder()
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	if err := embedder.Prepare(texts); err != nil {
		return err
	}
	vectors := make([][]float64, len(chunks))
	for i, text := range texts {
		v, err := embedder.Embed(text)
		if err != nil {
			return err
		}
		vectors[i] = v
	}
	s.embedder, s.chunks, s.vectors = embedder, chunks, vectors
	return nil
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// RankedSearch returns at most limit matching chunks, most relevant first.
func (s *Store) RankedSearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.chunks) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	scores := s.cosineScores(query)
	if scores == nil {
		scores = s.lexicalScores(query)
	}
	return topK(s.chunks, scores, limit), nil
}

// cosineScores returns nil when the query embeds to a zero vector or nothing
// scores above zero.
func (s *Store) cosineScores(query string) []float64 {
	vec, err := s.embedder.Embed(query)
	if err != nil {
		return nil
	}
	scores := make([]float64, len(s.vectors))
	matched := false
	for i := range s.vectors {
		scores[i] = dot(s.vectors[i], vec)
		if scores[i] > minScore {
			matched = true
		}
	}
	if !matched {
		return nil
	}
	return scores
}

func (s *Store) lexicalScores(query string) []float64 {
	qset := toTokenSet(s.embedder, query)
	scores := make([]float64, len(s.chunks))
	for i, c := range s.chunks {
		scores[i] = overlapOchiai(qset, toTokenSet(s.embedder, c.Text))
	}
	return scores
}

func topK(chunks []domain.Chunk, scores []float64, k int) []domain.SearchResult {
	idxs := make([]int, 0, len(scores))
	for i, sc := range scores {
		if sc > minScore {
			idxs = append(idxs, i)
		}
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		if scores[idxs[a]] != scores[idxs[b]] {
			return scores[idxs[a]] > scores[idxs[b]]
		}
		return chunks[idxs[a]].Index < chunks[idxs[b]].Index
	})
	if k > len(idxs) {
		k = len(idxs)
	}
	out := make([]domain.SearchResult, 0, k)
	for _, i := range idxs[:k] {
		out = append(out, domain.SearchResult{Chunk: chunks[i], Score: scores[i]})
	}
	return out
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

const stemLen = 6

func toTokenSet(e *tfidf.Embedder, s string) map[string]struct{} {
	tokens := e.Tokenize(s)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if r := []rune(t); len(r) > stemLen {
			t = string(r[:stemLen])
		}
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai is |A∩B| / sqrt(|A||B|).
func overlapOchiai(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range b {
		if _, ok := a[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(a))*float64(len(b)))
}
