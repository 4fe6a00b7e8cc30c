package remote

import (
	"context"

	"github.com/Djoe-Denne/vocal-agent/internal/config"
	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline/stage"
)

// Loader is the remote stage catalog: it pre-constructs one RPC-backed
// stage per sibling service at construction time (including the
// connect-retry) and dispatches LoadStep by the fixed name table
// audio_transform / asr_transcribe / alignment_enrich.
type Loader struct {
	stages map[string]stage.Stage
}

// NewLoader connects to the three configured endpoints (audio, asr,
// alignment) with the construction-time connect-retry policy and builds
// the fixed name-table loader. Any connection failure aborts construction.
func NewLoader(ctx context.Context, cfg config.AppConfig, targetSampleRateHz uint32) (*Loader, error) {
	endpoints := cfg.Service.Endpoints

	audioConn, err := connectWithRetry(ctx, "audio", endpoints["audio"])
	if err != nil {
		return nil, err
	}
	asrConn, err := connectWithRetry(ctx, "asr", endpoints["asr"])
	if err != nil {
		return nil, err
	}
	alignmentConn, err := connectWithRetry(ctx, "alignment", endpoints["alignment"])
	if err != nil {
		return nil, err
	}

	stages := map[string]stage.Stage{
		"audio_transform": NewAudioTransformStage(audioConn, requestTimeout(endpoints["audio"]), targetSampleRateHz),
		"asr_transcribe":  NewAsrTranscribeStage(asrConn, requestTimeout(endpoints["asr"])),
		"alignment_enrich": NewAlignmentEnrichStage(alignmentConn, requestTimeout(endpoints["alignment"])),
	}
	return &Loader{stages: stages}, nil
}

// LoadStep dispatches by the fixed remote stage name table.
func (l *Loader) LoadStep(spec domain.PipelineStepSpec) (stage.Stage, error) {
	s, ok := l.stages[spec.Name]
	if !ok {
		return nil, domainerr.InternalErrorf("unknown pipeline step `%s`", spec.Name)
	}
	return s, nil
}
