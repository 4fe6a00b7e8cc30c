package domain

import (
	"errors"
	"strings"
)

// ErrEmptyStepName is returned when a PipelineStepSpec is built from a blank
// or whitespace-only name.
var ErrEmptyStepName = errors.New("pipeline step name cannot be empty")

// PipelineStepSpec names one stage to be resolved by a stage.Loader.
type PipelineStepSpec struct {
	Name string
}

// NewPipelineStepSpec trims name and rejects an empty result, matching the
// original config layer's to_step_spec validation.
func NewPipelineStepSpec(name string) (PipelineStepSpec, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return PipelineStepSpec{}, ErrEmptyStepName
	}
	return PipelineStepSpec{Name: trimmed}, nil
}

// PipelineDefinition is the ordered triple (pre, transcription, post) of
// stage names resolved into an Engine by FromDefinition.
type PipelineDefinition struct {
	Pre           []PipelineStepSpec
	Transcription PipelineStepSpec
	Post          []PipelineStepSpec
}

// OrderedSteps concatenates Pre, Transcription and Post into the single
// sequence the engine executes in order.
func (d PipelineDefinition) OrderedSteps() []PipelineStepSpec {
	steps := make([]PipelineStepSpec, 0, len(d.Pre)+1+len(d.Post))
	steps = append(steps, d.Pre...)
	steps = append(steps, d.Transcription)
	steps = append(steps, d.Post...)
	return steps
}
