package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiact/internal/domain"
)

func TestPageChunker(t *testing.T) {
	doc := domain.Document{ID: "act", Content: "  Article 1\nSubject matter \f\f \n\t\fArticle 2\nScope\f"}
	chunks, err := NewPageChunker().Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, domain.Chunk{DocumentID: "act", ChunkID: "act:0", Text: "Article 1\nSubject matter", Index: 0}, chunks[0])
	assert.Equal(t, "act:1", chunks[1].ChunkID)
	assert.Equal(t, "Article 2\nScope", chunks[1].Text)
	assert.Equal(t, 1, chunks[1].Index)
}

func TestPageChunker_Empty(t *testing.T) {
	chunks, err := NewPageChunker().Chunk(domain.Document{ID: "x", Content: " \f \n"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSentenceChunker_Overlap(t *testing.T) {
	doc := domain.Document{ID: "d", Content: "One. Two! Three? Four; Five"}
	chunks, err := NewSentenceChunker(2, 1).Chunk(doc)
	require.NoError(t, err)

	var texts []string
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"One. Two!", "Two! Three?", "Three? Four;", "Four; Five"}, texts)
}

func TestSentenceChunker_Defaults(t *testing.T) {
	c := NewSentenceChunker(0, 9)
	assert.Equal(t, 5, c.sentencesPerChunk)
	assert.Equal(t, 0, c.overlapSentences)

	chunks, err := c.Chunk(domain.Document{ID: "d", Content: "  \n "})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestNew(t *testing.T) {
	assert.IsType(t, &SentenceChunker{}, New("sentence", 3, 1))
	assert.IsType(t, &PageChunker{}, New("page", 0, 0))
	assert.IsType(t, &PageChunker{}, New("", 0, 0))
}
