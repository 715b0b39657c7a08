package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"aiact/internal/domain"
)

// sentenceRe matches a run of text up to a terminator, or a trailing run
// with none, so the tail of a regulation paragraph is never dropped.
var sentenceRe = regexp.MustCompile(`[^.!?;]+(?:[.!?;]+|$)`)

// SentenceChunker groups consecutive sentences into overlapping windows.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 || overlapSentences >= sentencesPerChunk {
		overlapSentences = 0
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
	}
}

func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	sentences := splitSentences(document.Content)
	if len(sentences) == 0 {
		return nil, nil
	}
	var chunks []domain.Chunk
	step := c.sentencesPerChunk - c.overlapSentences
	for start := 0; start < len(sentences); start += step {
		end := min(start+c.sentencesPerChunk, len(sentences))
		chunks = append(chunks, newChunk(document.ID, len(chunks), strings.Join(sentences[start:end], " ")))
		if end == len(sentences) {
			break
		}
	}
	return chunks, nil
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		s = strings.Join(strings.Fields(s), " ")
		if s != "" && strings.Trim(s, ".!?;") != "" {
			out = append(out, s)
		}
	}
	return out
}

func newChunk(docID string, idx int, text string) domain.Chunk {
	return domain.Chunk{
		DocumentID: docID,
		ChunkID:    docID + ":" + strconv.Itoa(idx),
		Text:       text,
		Index:      idx,
	}
}
