package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline/builtin"
)

func TestResampleStageIsIdentityWhenRatesMatch(t *testing.T) {
	pctx := domain.NewPipelineContext("s1")
	pctx.Audio.SampleRateHz = 16000
	pctx.Audio.Samples = []float32{0.1, 0.2, 0.3}

	stage := builtin.NewResampleStage(16000)
	require.NoError(t, stage.Execute(context.Background(), pctx))

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, pctx.Audio.Samples)
	resampled, _ := pctx.Extension("audio.resampled")
	assert.Equal(t, false, resampled)
}

func TestResampleStageIsIdentityWhenTooFewSamples(t *testing.T) {
	pctx := domain.NewPipelineContext("s1")
	pctx.Audio.SampleRateHz = 8000
	pctx.Audio.Samples = []float32{0.5}

	stage := builtin.NewResampleStage(16000)
	require.NoError(t, stage.Execute(context.Background(), pctx))

	assert.Equal(t, []float32{0.5}, pctx.Audio.Samples)
	assert.Equal(t, uint32(16000), pctx.Audio.SampleRateHz)
}

func TestResampleStageUpsamplesWithLinearInterpolation(t *testing.T) {
	pctx := domain.NewPipelineContext("s1")
	pctx.Audio.SampleRateHz = 8000
	pctx.Audio.Samples = []float32{0.0, 1.0}

	stage := builtin.NewResampleStage(16000)
	require.NoError(t, stage.Execute(context.Background(), pctx))

	assert.Equal(t, uint32(16000), pctx.Audio.SampleRateHz)
	assert.Equal(t, 4, len(pctx.Audio.Samples))
	assert.InDelta(t, 0.0, pctx.Audio.Samples[0], 1e-6)
	resampled, _ := pctx.Extension("audio.resampled")
	assert.Equal(t, true, resampled)
}

func TestResampleStageRejectsZeroRates(t *testing.T) {
	pctx := domain.NewPipelineContext("s1")
	pctx.Audio.SampleRateHz = 0
	pctx.Audio.Samples = []float32{0.1}

	stage := builtin.NewResampleStage(16000)
	err := stage.Execute(context.Background(), pctx)
	assert.Error(t, err)
}
