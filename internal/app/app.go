// Package app assembles the configured components into services.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"aiact/internal/chunker"
	"aiact/internal/config"
	"aiact/internal/conversation/memory"
	"aiact/internal/conversation/redis"
	convsqlite "aiact/internal/conversation/sqlite"
	"aiact/internal/domain"
	"aiact/internal/llm/gemini"
	"aiact/internal/llm/openai"
	"aiact/internal/pipeline"
	"aiact/internal/service"
	"aiact/internal/summarizer"
	textmemory "aiact/internal/textstore/memory"
	textsqlite "aiact/internal/textstore/sqlite"
)

// TextStore is a ranking store that can also be (re)indexed.
type TextStore interface {
	domain.TextRanker
	domain.ChunkIndexer
}

// App holds the process-scoped components. Close releases them.
type App struct {
	Config     *config.AppConfig
	Logger     *zap.Logger
	Generator  domain.Generator
	Store      TextStore
	Compliance *service.ComplianceService
	Chat       *service.ChatService
	Ingest     *service.IngestService

	closers []io.Closer
}

// NewGenerator builds the configured language backend.
func NewGenerator(ctx context.Context, cfg config.GenerationConfig) (domain.Generator, error) {
	switch cfg.Type {
	case "openai":
		if cfg.OpenAI == nil {
			return nil, errors.New("openai generation config missing")
		}
		c, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    cfg.Timeout(),
			AllowNoKey: cfg.OpenAI.AllowNoKey,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case "gemini":
		if cfg.Gemini == nil {
			return nil, errors.New("gemini generation config missing")
		}
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKeyEnv: cfg.Gemini.APIKeyEnv,
			Model:     cfg.Gemini.Model,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown generation backend: %s", cfg.Type)
	}
}

// NewTextStore opens the configured ranking store.
func NewTextStore(cfg config.RetrievalConfig) (TextStore, error) {
	switch cfg.Type {
	case "memory":
		return textmemory.NewStore(), nil
	case "sqlite":
		s, err := textsqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown retrieval store: %s", cfg.Type)
	}
}

// NewConversationStore opens the configured chat history store.
func NewConversationStore(ctx context.Context, cfg config.ConversationConfig) (domain.ConversationStore, error) {
	switch cfg.Type {
	case "memory":
		return memory.NewStore(), nil
	case "sqlite":
		s, err := convsqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		if cfg.Redis == nil {
			return nil, errors.New("redis conversation config missing")
		}
		s, err := redis.Open(ctx, redis.Options{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       time.Duration(cfg.Redis.TTLHours) * time.Hour,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown conversation store: %s", cfg.Type)
	}
}

// NewIngestService wires the configured chunker and summarizer to store.
func NewIngestService(cfg *config.AppConfig, store domain.ChunkIndexer, logger *zap.Logger) *service.IngestService {
	ch := chunker.New(cfg.Chunker.Type, cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	return service.NewIngestService(ch, store, summarizer.NewFrequencySummarizer(), cfg.Summarizer.MaxSentences, logger.Named("ingest"))
}

// New builds every service. When the retrieval config lists sources they
// are ingested before New returns.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	gen, err := NewGenerator(ctx, cfg.Generation)
	if err != nil {
		return nil, err
	}
	return Assemble(ctx, cfg, gen, logger)
}

// Assemble is New with an explicit generator.
func Assemble(ctx context.Context, cfg *config.AppConfig, gen domain.Generator, logger *zap.Logger) (_ *App, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Generator: gen}
	a.track(gen)
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	store, err := NewTextStore(cfg.Retrieval)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.track(store)

	conv, err := NewConversationStore(ctx, cfg.Conversation)
	if err != nil {
		return nil, err
	}
	a.track(conv)

	genOpts := domain.GenerationOptions{Temperature: cfg.Generation.Temperature, MaxTokens: cfg.Generation.MaxTokens}
	a.Compliance, err = service.NewComplianceService(gen, store, service.ComplianceOptions{
		Stages: pipeline.StageOptions{
			Generation:        genOpts,
			GenerationTimeout: cfg.Generation.Timeout(),
			GenerationRetries: cfg.Generation.Retries,
			RetrievalLimit:    cfg.Retrieval.Limit,
			RetrievalTimeout:  cfg.Retrieval.Timeout(),
			RetrievalRetries:  cfg.Retrieval.Retries,
		},
		MaxLength: cfg.Server.MaxLength,
	}, logger.Named("compliance"))
	if err != nil {
		return nil, err
	}
	a.Chat = service.NewChatService(gen, conv, genOpts, logger.Named("chat"))
	a.Ingest = NewIngestService(cfg, store, logger)

	if len(cfg.Retrieval.Sources) > 0 {
		report, err := a.Ingest.IngestDocuments(ctx, cfg.Retrieval.Sources)
		if err != nil {
			return nil, fmt.Errorf("ingest sources: %w", err)
		}
		logger.Info("reference corpus loaded", zap.Int("documents", report.Documents), zap.Int("chunks", report.Chunks))
	}
	return a, nil
}

func (a *App) track(v any) {
	if c, ok := v.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
}

// Close releases stores and backends in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
