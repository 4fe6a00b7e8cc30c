package builtin

import (
	"context"

	"github.com/Djoe-Denne/vocal-agent/internal/align"
	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
)

// Wav2Vec2AlignmentStageName is the catalog name for Wav2Vec2AlignmentStage.
const Wav2Vec2AlignmentStageName = "wav2vec2_alignment"

// Wav2Vec2AlignmentStage produces word-level timings for ctx.Transcript via
// an align.Port and appends an AlignmentUpdate event.
type Wav2Vec2AlignmentStage struct {
	aligner align.Port
}

// NewWav2Vec2AlignmentStage builds a Wav2Vec2AlignmentStage over aligner.
func NewWav2Vec2AlignmentStage(aligner align.Port) *Wav2Vec2AlignmentStage {
	return &Wav2Vec2AlignmentStage{aligner: aligner}
}

func (s *Wav2Vec2AlignmentStage) Name() string { return Wav2Vec2AlignmentStageName }

func (s *Wav2Vec2AlignmentStage) Execute(ctx context.Context, pctx *domain.PipelineContext) error {
	if pctx.Transcript == nil {
		return domainerr.InternalError("no transcript available")
	}

	output, err := s.aligner.Align(ctx, align.Request{Transcript: *pctx.Transcript})
	if err != nil {
		return err
	}

	pctx.AlignedWords = output.Words
	pctx.AppendEvent(domain.AlignmentUpdateEvent(output.Words))
	return nil
}
