package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiact/internal/domain"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.Upsert(context.Background(), []domain.Chunk{
		{ChunkID: "p0", Index: 0, Text: "Article 5 prohibits social scoring by public authorities."},
		{ChunkID: "p1", Index: 1, Text: "High-risk systems need a risk management system and human oversight."},
		{ChunkID: "p2", Index: 2, Text: "Providers of chatbots must disclose that users interact with an AI system."},
	}))
	return s
}

func TestRankedSearch_MostRelevantFirst(t *testing.T) {
	s := seeded(t)
	res, err := s.RankedSearch(context.Background(), "chatbots disclose", 2)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.Equal(t, "p2", res[0].Chunk.ChunkID)
	assert.LessOrEqual(t, len(res), 2)
}

func TestRankedSearch_NoMatchIsEmpty(t *testing.T) {
	s := seeded(t)
	res, err := s.RankedSearch(context.Background(), "zebra", 2)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestRankedSearch_StemFallback(t *testing.T) {
	s := seeded(t)
	res, err := s.RankedSearch(context.Background(), "chatbot", 2)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "p2", res[0].Chunk.ChunkID)
}

func TestRankedSearch_EmptyStore(t *testing.T) {
	res, err := NewStore().RankedSearch(context.Background(), "anything", 2)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestRankedSearch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := seeded(t).RankedSearch(ctx, "risk", 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUpsert_ReplacesByChunkID(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Upsert(context.Background(), []domain.Chunk{{ChunkID: "p1", Index: 1, Text: "Deepfakes must be labelled."}}))
	assert.Equal(t, 3, s.Len())

	res, err := s.RankedSearch(context.Background(), "deepfakes", 2)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "p1", res[0].Chunk.ChunkID)

	require.NoError(t, s.Clear(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestReplace_SwapsCorpus(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.Replace(context.Background(), []domain.Chunk{{ChunkID: "n0", Index: 0, Text: "Deepfakes must be labelled."}}))
	assert.Equal(t, 1, s.Len())

	res, err := s.RankedSearch(context.Background(), "social scoring", 2)
	require.NoError(t, err)
	assert.Empty(t, res)
	res, err = s.RankedSearch(context.Background(), "deepfakes", 2)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "n0", res[0].Chunk.ChunkID)
}

func TestReplace_FailureKeepsPreviousCorpus(t *testing.T) {
	s := seeded(t)
	err := s.Replace(context.Background(), []domain.Chunk{
		{ChunkID: "x0", Index: 0, Text: "The and the."},
		{ChunkID: "x1", Index: 1, Text: "Of a."},
	})
	require.Error(t, err)
	assert.Equal(t, 3, s.Len())

	res, err := s.RankedSearch(context.Background(), "social scoring", 2)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "p0", res[0].Chunk.ChunkID)
}

func TestReplace_CancelledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Replace(ctx, []domain.Chunk{{ChunkID: "n0", Text: "Deepfakes must be labelled."}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, s.Len())
}

func TestUpsert_FailureLeavesStoreUnchanged(t *testing.T) {
	s := NewStore()
	require.Error(t, s.Upsert(context.Background(), []domain.Chunk{{ChunkID: "x0", Text: "the"}}))
	assert.Equal(t, 0, s.Len())
}
