package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiact/internal/chunker"
	"aiact/internal/domain"
	"aiact/internal/summarizer"
	"aiact/internal/textstore/memory"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestIngestDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "Article 50. Transparency for chatbots.")
	writeFile(t, dir, "a.txt", "Article 5. Prohibited practices.\f\f  \fArticle 6. High-risk classification.")
	writeFile(t, dir, "notes.md", "ignored")

	store := memory.NewStore()
	require.NoError(t, store.Upsert(context.Background(), []domain.Chunk{{ChunkID: "stale", Text: "old"}}))

	svc := NewIngestService(chunker.NewPageChunker(), store, summarizer.NewFrequencySummarizer(), 2, nil)
	report, err := svc.IngestDocuments(context.Background(), []string{filepath.Join(dir, "*"), filepath.Join(dir, "a.txt")})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 3, report.Chunks)
	assert.NotEmpty(t, report.Summary)
	assert.Equal(t, 3, store.Len())

	res, err := store.RankedSearch(context.Background(), "chatbots transparency", 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 2, res[0].Chunk.Index)

	res, err = store.RankedSearch(context.Background(), "classification", 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 1, res[0].Chunk.Index)
}

func TestIngestDocuments_NoDocuments(t *testing.T) {
	svc := NewIngestService(chunker.NewPageChunker(), memory.NewStore(), summarizer.NewFrequencySummarizer(), 2, nil)
	_, err := svc.IngestDocuments(context.Background(), []string{filepath.Join(t.TempDir(), "*.txt")})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

type failingIndexer struct{ err error }

func (f failingIndexer) Clear(context.Context) error                  { return nil }
func (f failingIndexer) Upsert(context.Context, []domain.Chunk) error  { return f.err }
func (f failingIndexer) Replace(context.Context, []domain.Chunk) error { return f.err }

func TestIngestDocuments_IndexFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "act.txt", "Article 1.")
	boom := errors.New("disk full")
	svc := NewIngestService(chunker.NewPageChunker(), failingIndexer{boom}, summarizer.NewFrequencySummarizer(), 2, nil)
	_, err := svc.IngestDocuments(context.Background(), []string{path})
	assert.ErrorIs(t, err, boom)
}

func TestIngestDocuments_FailedReingestKeepsIndex(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "act.txt", "Article 5. Social scoring is prohibited.\fArticle 6. High-risk classification.")
	bad := writeFile(t, dir, "empty.txt", "The and the.\fOf a.")

	store := memory.NewStore()
	svc := NewIngestService(chunker.NewPageChunker(), store, summarizer.NewFrequencySummarizer(), 2, nil)
	_, err := svc.IngestDocuments(context.Background(), []string{good})
	require.NoError(t, err)

	_, err = svc.IngestDocuments(context.Background(), []string{bad})
	require.Error(t, err)
	assert.Equal(t, 2, store.Len())

	res, err := store.RankedSearch(context.Background(), "social scoring", 2)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 0, res[0].Chunk.Index)
}

func TestHashString(t *testing.T) {
	assert.Len(t, hashString("x"), 16)
	assert.Equal(t, hashString("x"), hashString("x"))
	assert.NotEqual(t, hashString("x"), hashString("y"))
}
