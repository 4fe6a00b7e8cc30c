package builtin

import (
	"context"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
)

// ClampStageName is the catalog name for AudioClampStage.
const ClampStageName = "audio_clamp"

// AudioClampStage clamps every sample to [-1.0, +1.0] in place. It never
// fails and leaves the sample rate unchanged.
type AudioClampStage struct{}

// NewAudioClampStage builds an AudioClampStage. It has no configuration.
func NewAudioClampStage() *AudioClampStage {
	return &AudioClampStage{}
}

func (s *AudioClampStage) Name() string { return ClampStageName }

func (s *AudioClampStage) Execute(_ context.Context, pctx *domain.PipelineContext) error {
	samples := pctx.Audio.Samples
	for i, v := range samples {
		switch {
		case v > 1.0:
			samples[i] = 1.0
		case v < -1.0:
			samples[i] = -1.0
		}
	}
	return nil
}
