package builtin

import (
	"context"
	"math"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
)

// ResampleStageName is the catalog name for ResampleStage.
const ResampleStageName = "resample"

// ResampleStage resamples ctx.Audio to a configured target rate using
// linear interpolation.
type ResampleStage struct {
	targetSampleRateHz uint32
}

// NewResampleStage builds a ResampleStage targeting targetSampleRateHz.
func NewResampleStage(targetSampleRateHz uint32) *ResampleStage {
	return &ResampleStage{targetSampleRateHz: targetSampleRateHz}
}

func (s *ResampleStage) Name() string { return ResampleStageName }

func (s *ResampleStage) Execute(_ context.Context, pctx *domain.PipelineContext) error {
	source := pctx.Audio.SampleRateHz
	target := s.targetSampleRateHz

	if source == 0 || target == 0 {
		return domainerr.InternalError("resample: source and target sample rates must be non-zero")
	}

	if source == target {
		pctx.SetExtension("audio.resampled", false)
		return nil
	}

	samples := pctx.Audio.Samples
	n := len(samples)
	if n <= 1 {
		pctx.SetExtension("audio.resampled", false)
		pctx.Audio.SampleRateHz = target
		return nil
	}

	sourceF := float64(source)
	targetF := float64(target)
	length := int(math.Floor(float64(n) * targetF / sourceF))
	if length < 1 {
		length = 1
	}

	out := make([]float32, length)
	for i := 0; i < length; i++ {
		p := float64(i) * sourceF / targetF
		l := int(math.Floor(p))
		r := l + 1
		if r > n-1 {
			r = n - 1
		}
		f := float32(p - float64(l))
		out[i] = samples[l]*(1-f) + samples[r]*f
	}

	pctx.Audio.Samples = out
	pctx.Audio.SampleRateHz = target
	pctx.SetExtension("audio.resampled", true)
	pctx.SetExtension("audio.source_sample_rate_hz", source)
	pctx.SetExtension("audio.target_sample_rate_hz", target)
	return nil
}
