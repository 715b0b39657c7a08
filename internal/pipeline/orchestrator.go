package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"aiact/internal/domain"
	"aiact/internal/prompt"
)

// Terminal names the state a successful run ended in.
type Terminal int

const (
	// FullyProcessed ran retrieval and guide generation.
	FullyProcessed Terminal = iota + 1
	// ShortCircuited stopped after classification because the project falls
	// in the prohibited tier.
	ShortCircuited
)

func (t Terminal) String() string {
	switch t {
	case FullyProcessed:
		return "fully_processed"
	case ShortCircuited:
		return "short_circuited"
	default:
		return "unknown"
	}
}

// Outcome is the result of a successful run.
type Outcome struct {
	Terminal Terminal
	Result   domain.AiactResult
}

// Stages are the four steps of the compliance pipeline.
type Stages struct {
	Summarizer     *GenerationStep
	RiskClassifier *GenerationStep
	Retrieval      *RetrievalStep
	GuideGenerator *GenerationStep
}

// StageOptions configures DefaultStages.
type StageOptions struct {
	Generation        domain.GenerationOptions
	GenerationTimeout time.Duration
	GenerationRetries int
	RetrievalLimit    int
	RetrievalTimeout  time.Duration
	RetrievalRetries  int
}

// DefaultStages wires the built-in templates to one backend and one store.
func DefaultStages(gen domain.Generator, store domain.TextRanker, opts StageOptions) Stages {
	step := func(t *prompt.Template, output string) *GenerationStep {
		return &GenerationStep{
			Template: t,
			Output:   output,
			Backend:  gen,
			Options:  opts.Generation,
			Timeout:  opts.GenerationTimeout,
			Retries:  opts.GenerationRetries,
		}
	}
	return Stages{
		Summarizer:     step(prompt.Summarizer(), prompt.FieldKeyFunctionalities),
		RiskClassifier: step(prompt.RiskClassifier(), prompt.FieldRiskLevel),
		Retrieval: &RetrievalStep{
			Store:   store,
			Limit:   opts.RetrievalLimit,
			Timeout: opts.RetrievalTimeout,
			Retries: opts.RetrievalRetries,
		},
		GuideGenerator: step(prompt.GuideGenerator(), prompt.FieldComplianceGuide),
	}
}

// Orchestrator runs the stages strictly in dependency order:
// summarize, classify, then either stop (prohibited) or retrieve and write
// the guide.
type Orchestrator struct {
	stages Stages
	logger *zap.Logger
}

// NewOrchestrator checks that every stage's inputs are produced by an earlier
// stage, so a MissingInputError surfaces here rather than per request.
func NewOrchestrator(stages Stages, logger *zap.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stages.Retrieval == nil || stages.Retrieval.Store == nil {
		return nil, errors.New("retrieval step needs a store")
	}
	available := map[string]struct{}{prompt.FieldProjectDescription: {}}
	ordered := []struct {
		step   *GenerationStep
		output string
	}{
		{stages.Summarizer, prompt.FieldKeyFunctionalities},
		{stages.RiskClassifier, prompt.FieldRiskLevel},
		{stages.GuideGenerator, prompt.FieldComplianceGuide},
	}
	for _, s := range ordered {
		if s.step == nil {
			return nil, fmt.Errorf("missing generation step for %s", s.output)
		}
		if err := s.step.validate(available); err != nil {
			return nil, err
		}
		if s.step.Output != s.output {
			return nil, fmt.Errorf("step %s writes %q, want %q", s.step.Name(), s.step.Output, s.output)
		}
		available[s.output] = struct{}{}
		if s.output == prompt.FieldRiskLevel {
			available[prompt.FieldAiactExtract] = struct{}{}
		}
	}
	return &Orchestrator{stages: stages, logger: logger}, nil
}

// Run executes one pipeline run. Any stage failure aborts the run and no
// partial result is returned.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	fields := NewFields()
	if err := fields.Set(prompt.FieldProjectDescription, req.ProjectDescription); err != nil {
		return Outcome{}, err
	}

	if err := o.generate(ctx, o.stages.Summarizer, fields); err != nil {
		return Outcome{}, err
	}
	if err := o.generate(ctx, o.stages.RiskClassifier, fields); err != nil {
		return Outcome{}, err
	}

	riskLevel, _ := fields.Get(o.stages.RiskClassifier.Output)
	if IsProhibited(riskLevel) {
		o.logger.Debug("prohibited classification, skipping retrieval and guide")
		if err := fields.Set(prompt.FieldAiactExtract, ""); err != nil {
			return Outcome{}, err
		}
		if err := fields.Set(prompt.FieldComplianceGuide, ""); err != nil {
			return Outcome{}, err
		}
		return Outcome{Terminal: ShortCircuited, Result: fields.result()}, nil
	}

	query, _ := fields.Get(prompt.FieldKeyFunctionalities)
	start := time.Now()
	extract, err := o.stages.Retrieval.Run(ctx, query)
	if err != nil {
		o.logger.Warn("stage failed", zap.String("stage", o.stages.Retrieval.Name()), zap.Error(err))
		return Outcome{}, err
	}
	o.logger.Debug("stage done",
		zap.String("stage", o.stages.Retrieval.Name()),
		zap.Duration("took", time.Since(start)),
		zap.Int("extract_len", len(extract)))
	if err := fields.Set(prompt.FieldAiactExtract, extract); err != nil {
		return Outcome{}, err
	}

	if err := o.generate(ctx, o.stages.GuideGenerator, fields); err != nil {
		return Outcome{}, err
	}
	return Outcome{Terminal: FullyProcessed, Result: fields.result()}, nil
}

func (o *Orchestrator) generate(ctx context.Context, step *GenerationStep, fields *Fields) error {
	start := time.Now()
	out, err := step.Run(ctx, fields)
	if err != nil {
		o.logger.Warn("stage failed", zap.String("stage", step.Name()), zap.Error(err))
		return err
	}
	o.logger.Debug("stage done",
		zap.String("stage", step.Name()),
		zap.Duration("took", time.Since(start)),
		zap.Int("output_len", len(out)))
	return fields.Set(step.Output, out)
}
