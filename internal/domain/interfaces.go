package domain

import (
	"context"
	"time"
)

// Document represents a single source file loaded for ingestion.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk is one unit of reference text. Index is the stable ordinal assigned at
// ingestion time and defines document order.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// AiactResult is the aggregated output of one compliance pipeline run.
type AiactResult struct {
	KeyFunctionalities string `json:"key_functionalities"`
	AiactExtract       string `json:"aiact_extract"`
	ComplianceGuide    string `json:"compliance_guide"`
	RiskLevel          string `json:"risk_level"`
}

// GenerationOptions tunes a single completion call.
type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// Generator is a language-generation backend.
type Generator interface {
	Name() string
	Complete(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// TextRanker answers ranked full-text queries over the reference corpus.
// Results are ordered by relevance, not by document order.
type TextRanker interface {
	RankedSearch(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// ChunkIndexer is the write side of a ranking store, used by ingestion.
type ChunkIndexer interface {
	Clear(ctx context.Context) error
	Upsert(ctx context.Context, chunks []Chunk) error
	// Replace atomically swaps the whole corpus for chunks. On error the
	// previous corpus is still served.
	Replace(ctx context.Context, chunks []Chunk) error
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// Chat roles stored in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationStore persists chat history keyed by session ID.
type ConversationStore interface {
	AppendMessage(ctx context.Context, sessionID, role, content string) error
	History(ctx context.Context, sessionID string) ([]Message, error)
	Delete(ctx context.Context, sessionID string) (bool, error)
	Sessions(ctx context.Context) ([]string, error)
}
