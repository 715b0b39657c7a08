package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"aiact/internal/domain"
	"aiact/internal/pipeline"
)

// ComplianceGenerationError is the single error type returned by
// ComplianceService. Cause is the underlying pipeline error.
type ComplianceGenerationError struct {
	Cause error
}

func (e *ComplianceGenerationError) Error() string {
	return "failed to generate compliance guide: " + e.Cause.Error()
}

func (e *ComplianceGenerationError) Unwrap() error { return e.Cause }

// ComplianceService owns the generation backend and ranking store for the
// life of the process and runs the compliance pipeline against them.
type ComplianceService struct {
	generator domain.Generator
	store     domain.TextRanker
	orch      *pipeline.Orchestrator
	maxLength int
	logger    *zap.Logger
}

// ComplianceOptions tunes the pipeline. MaxLength applies to requests that
// do not set their own.
type ComplianceOptions struct {
	Stages    pipeline.StageOptions
	MaxLength int
}

func NewComplianceService(gen domain.Generator, store domain.TextRanker, opts ComplianceOptions, logger *zap.Logger) (*ComplianceService, error) {
	if gen == nil {
		return nil, errors.New("compliance service needs a generator")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	orch, err := pipeline.NewOrchestrator(pipeline.DefaultStages(gen, store, opts.Stages), logger.Named("pipeline"))
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	return &ComplianceService{
		generator: gen,
		store:     store,
		orch:      orch,
		maxLength: opts.MaxLength,
		logger:    logger,
	}, nil
}

// GenerateComplianceGuide runs the pipeline for one project description.
func (s *ComplianceService) GenerateComplianceGuide(ctx context.Context, description string) (domain.AiactResult, error) {
	out, err := s.Analyze(ctx, pipeline.Request{ProjectDescription: description})
	if err != nil {
		return domain.AiactResult{}, err
	}
	return out.Result, nil
}

// Analyze is GenerateComplianceGuide with the full request and outcome.
func (s *ComplianceService) Analyze(ctx context.Context, req pipeline.Request) (pipeline.Outcome, error) {
	if req.MaxLength == 0 {
		req.MaxLength = s.maxLength
	}
	out, err := s.orch.Run(ctx, req)
	if err != nil {
		s.logger.Error("compliance guide generation failed",
			zap.String("backend", s.generator.Name()),
			zap.Error(err))
		return pipeline.Outcome{}, &ComplianceGenerationError{Cause: err}
	}
	s.logger.Info("compliance guide generated",
		zap.Stringer("terminal", out.Terminal),
		zap.Int("guide_len", len(out.Result.ComplianceGuide)))
	return out, nil
}

// Close releases the backend and store handles that hold resources.
func (s *ComplianceService) Close() error {
	var errs []error
	for _, h := range []any{s.generator, s.store} {
		if c, ok := h.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
