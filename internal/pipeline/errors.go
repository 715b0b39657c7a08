package pipeline

import (
	"errors"
	"fmt"

	"aiact/internal/prompt"
)

var (
	ErrEmptyDescription   = errors.New("project description is empty")
	ErrDescriptionTooLong = errors.New("project description exceeds max length")
	ErrFieldOverwrite     = errors.New("field already written")
)

// MissingInputError is returned when a stage template references a field that
// is absent from its inputs. No backend call is made in that case.
type MissingInputError = prompt.MissingInputError

// BackendError wraps a failed generation call (network, auth, quota,
// malformed response or timeout).
type BackendError struct {
	Stage string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation backend failed in stage %s: %v", e.Stage, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// RetrievalUnavailableError wraps a failed ranking store query. An empty but
// successful result is not an error.
type RetrievalUnavailableError struct {
	Err error
}

func (e *RetrievalUnavailableError) Error() string {
	return fmt.Sprintf("retrieval unavailable: %v", e.Err)
}

func (e *RetrievalUnavailableError) Unwrap() error { return e.Err }
