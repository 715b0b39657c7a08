package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"aiact/internal/domain"
	"aiact/internal/prompt"
)

// Request is the immutable input of one pipeline run. MaxLength caps the
// description length in runes; zero means no cap.
type Request struct {
	ProjectDescription string `json:"project_description"`
	MaxLength          int    `json:"max_length,omitempty"`
}

// Validate rejects empty and over-long descriptions.
func (r Request) Validate() error {
	if strings.TrimSpace(r.ProjectDescription) == "" {
		return ErrEmptyDescription
	}
	if r.MaxLength > 0 {
		if n := utf8.RuneCountInString(r.ProjectDescription); n > r.MaxLength {
			return fmt.Errorf("%w: %d > %d", ErrDescriptionTooLong, n, r.MaxLength)
		}
	}
	return nil
}

// Fields accumulates named stage outputs for a single run. A field is written
// at most once.
type Fields struct {
	values map[string]string
}

func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// Set records a field value; writing an existing field fails.
func (f *Fields) Set(name, value string) error {
	if _, ok := f.values[name]; ok {
		return fmt.Errorf("%w: %s", ErrFieldOverwrite, name)
	}
	f.values[name] = value
	return nil
}

func (f *Fields) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Snapshot returns a copy of the current values.
func (f *Fields) Snapshot() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *Fields) result() domain.AiactResult {
	return domain.AiactResult{
		KeyFunctionalities: f.values[prompt.FieldKeyFunctionalities],
		AiactExtract:       f.values[prompt.FieldAiactExtract],
		ComplianceGuide:    f.values[prompt.FieldComplianceGuide],
		RiskLevel:          f.values[prompt.FieldRiskLevel],
	}
}

// IsProhibited reports whether a free-text classification names the
// prohibited tier. Matching is a case-insensitive substring test.
func IsProhibited(riskLevel string) bool {
	lower := strings.ToLower(riskLevel)
	return strings.Contains(lower, "prohibited") || strings.Contains(lower, "unacceptable")
}
