package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline/stage"
)

type recordingStage struct {
	name    string
	order   *[]string
	failErr error
}

func (s *recordingStage) Name() string { return s.name }

func (s *recordingStage) Execute(_ context.Context, _ *domain.PipelineContext) error {
	*s.order = append(*s.order, s.name)
	return s.failErr
}

type mapLoader map[string]stage.Stage

func (l mapLoader) LoadStep(spec domain.PipelineStepSpec) (stage.Stage, error) {
	s, ok := l[spec.Name]
	if !ok {
		return nil, errors.New("unknown step " + spec.Name)
	}
	return s, nil
}

func TestEngineRunsStagesInOrder(t *testing.T) {
	var order []string
	loader := mapLoader{
		"a": &recordingStage{name: "a", order: &order},
		"b": &recordingStage{name: "b", order: &order},
		"c": &recordingStage{name: "c", order: &order},
	}

	def := domain.PipelineDefinition{
		Pre:           []domain.PipelineStepSpec{{Name: "a"}},
		Transcription: domain.PipelineStepSpec{Name: "b"},
		Post:          []domain.PipelineStepSpec{{Name: "c"}},
	}

	engine, err := pipeline.FromDefinition(def, loader)
	require.NoError(t, err)

	pctx := domain.NewPipelineContext("s1")
	require.NoError(t, engine.Run(context.Background(), pctx))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestEngineStopsAtFirstFailingStage(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	loader := mapLoader{
		"a": &recordingStage{name: "a", order: &order, failErr: boom},
		"b": &recordingStage{name: "b", order: &order},
	}

	def := domain.PipelineDefinition{
		Transcription: domain.PipelineStepSpec{Name: "a"},
		Post:          []domain.PipelineStepSpec{{Name: "b"}},
	}

	engine, err := pipeline.FromDefinition(def, loader)
	require.NoError(t, err)

	pctx := domain.NewPipelineContext("s1")
	err = engine.Run(context.Background(), pctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a"}, order)
}

func TestFromDefinitionAbortsOnFirstResolutionFailure(t *testing.T) {
	loader := mapLoader{}
	def := domain.PipelineDefinition{Transcription: domain.PipelineStepSpec{Name: "missing"}}

	_, err := pipeline.FromDefinition(def, loader)
	assert.Error(t, err)
}
