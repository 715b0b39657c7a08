package chunker

import (
	"strings"

	"aiact/internal/domain"
)

// PageBreak separates pages in text extracted from PDFs.
const PageBreak = "\f"

// PageChunker emits one chunk per non-empty page. Chunk indexes follow page
// order and skip nothing, so the first non-empty page is always index 0.
type PageChunker struct{}

func NewPageChunker() *PageChunker { return &PageChunker{} }

func (PageChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, page := range strings.Split(document.Content, PageBreak) {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		chunks = append(chunks, newChunk(document.ID, len(chunks), page))
	}
	return chunks, nil
}

// New builds the chunker named by kind ("page" or "sentence").
func New(kind string, sentencesPerChunk, overlapSentences int) domain.Chunker {
	if kind == "sentence" {
		return NewSentenceChunker(sentencesPerChunk, overlapSentences)
	}
	return NewPageChunker()
}
