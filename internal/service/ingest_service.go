package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"aiact/internal/domain"
)

var ErrNoDocuments = errors.New("no .txt documents found")

// IngestReport describes one completed ingestion.
type IngestReport struct {
	Documents int
	Chunks    int
	Summary   string
}

// IngestService loads plain-text extractions of the regulation, chunks them
// and replaces the contents of the ranking store.
type IngestService struct {
	chunker             domain.Chunker
	indexer             domain.ChunkIndexer
	summarizer          domain.Summarizer
	summaryMaxSentences int
	logger              *zap.Logger
}

func NewIngestService(chunker domain.Chunker, indexer domain.ChunkIndexer, summarizer domain.Summarizer, summaryMaxSentences int, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		chunker:             chunker,
		indexer:             indexer,
		summarizer:          summarizer,
		summaryMaxSentences: summaryMaxSentences,
		logger:              logger,
	}
}

// IngestDocuments accepts file paths or glob patterns. Documents are read in
// lexical path order and chunk indexes run across all of them, so retrieval
// restores that order.
func (s *IngestService) IngestDocuments(ctx context.Context, paths []string) (IngestReport, error) {
	documents, err := loadDocuments(paths)
	if err != nil {
		return IngestReport{}, err
	}

	var (
		all    []domain.Chunk
		corpus strings.Builder
	)
	for _, d := range documents {
		chunks, err := s.chunker.Chunk(d)
		if err != nil {
			return IngestReport{}, fmt.Errorf("chunk %s: %w", d.Path, err)
		}
		offset := len(all)
		for _, ch := range chunks {
			ch.Index += offset
			all = append(all, ch)
		}
		s.logger.Debug("document chunked", zap.String("path", d.Path), zap.Int("chunks", len(chunks)))
		corpus.WriteString("\n")
		corpus.WriteString(d.Content)
	}

	if err := s.indexer.Replace(ctx, all); err != nil {
		return IngestReport{}, fmt.Errorf("index chunks: %w", err)
	}

	summary, err := s.summarizer.Summarize(corpus.String(), s.summaryMaxSentences)
	if err != nil {
		return IngestReport{}, err
	}
	s.logger.Info("ingestion complete", zap.Int("documents", len(documents)), zap.Int("chunks", len(all)))
	return IngestReport{Documents: len(documents), Chunks: len(all), Summary: summary}, nil
}

func loadDocuments(paths []string) ([]domain.Document, error) {
	seen := map[string]struct{}{}
	var files []string
	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, ErrNoDocuments
	}
	sort.Strings(files)

	documents := make([]domain.Document, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		documents = append(documents, domain.Document{ID: hashString(f), Path: f, Content: string(data)})
	}
	return documents, nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
