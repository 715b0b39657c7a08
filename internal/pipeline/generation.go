package pipeline

import (
	"context"
	"errors"
	"time"

	"aiact/internal/domain"
	"aiact/internal/prompt"
)

// GenerationStep renders a template from accumulated fields and asks the
// backend for one output field.
type GenerationStep struct {
	Template *prompt.Template
	Output   string
	Backend  domain.Generator
	Options  domain.GenerationOptions
	Timeout  time.Duration
	// Retries is the number of extra attempts after a failed call.
	Retries int
}

// Name identifies the step by its template.
func (s *GenerationStep) Name() string { return s.Template.Name() }

// Run returns the raw generated text, untrimmed.
func (s *GenerationStep) Run(ctx context.Context, fields *Fields) (string, error) {
	rendered, err := s.Template.Render(fields.Snapshot())
	if err != nil {
		return "", err
	}
	var out string
	err = attempt(ctx, s.Retries, s.Timeout, func(ctx context.Context) error {
		text, err := s.Backend.Complete(ctx, rendered, s.Options)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", &BackendError{Stage: s.Name(), Err: err}
	}
	return out, nil
}

func (s *GenerationStep) validate(available map[string]struct{}) error {
	if s.Template == nil || s.Backend == nil || s.Output == "" {
		return errors.New("generation step needs a template, a backend and an output field")
	}
	var missing []string
	for _, f := range s.Template.Required() {
		if _, ok := available[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingInputError{Template: s.Template.Name(), Fields: missing}
	}
	return nil
}
