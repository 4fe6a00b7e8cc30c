package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline/builtin"
)

func TestAudioClampStageClampsInPlace(t *testing.T) {
	pctx := domain.NewPipelineContext("s1")
	pctx.Audio.Samples = []float32{1.5, -1.5, 0.3, -0.3, 1.0, -1.0}

	stage := builtin.NewAudioClampStage()
	require.NoError(t, stage.Execute(context.Background(), pctx))

	assert.Equal(t, []float32{1.0, -1.0, 0.3, -0.3, 1.0, -1.0}, pctx.Audio.Samples)
}

func TestAudioClampStageNeverFails(t *testing.T) {
	pctx := domain.NewPipelineContext("s1")
	stage := builtin.NewAudioClampStage()
	assert.NoError(t, stage.Execute(context.Background(), pctx))
}
