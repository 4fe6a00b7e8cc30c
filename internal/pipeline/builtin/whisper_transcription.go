package builtin

import (
	"context"
	"strings"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/stt"
)

// WhisperTranscriptionStageName is the catalog name for WhisperTranscriptionStage.
const WhisperTranscriptionStageName = "whisper_transcription"

// WhisperTranscriptionStage decodes ctx.Audio into ctx.Transcript via a
// TranscriptionPort and appends a FinalTranscript event.
type WhisperTranscriptionStage struct {
	port stt.TranscriptionPort
}

// NewWhisperTranscriptionStage builds a WhisperTranscriptionStage over port.
func NewWhisperTranscriptionStage(port stt.TranscriptionPort) *WhisperTranscriptionStage {
	return &WhisperTranscriptionStage{port: port}
}

func (s *WhisperTranscriptionStage) Name() string { return WhisperTranscriptionStageName }

func (s *WhisperTranscriptionStage) Execute(ctx context.Context, pctx *domain.PipelineContext) error {
	hint := resolveLanguageHint(pctx.LanguageHint)

	output, err := s.port.Transcribe(ctx, stt.TranscriptionRequest{
		LanguageHint: hint,
		Audio:        pctx.Audio,
	})
	if err != nil {
		return err
	}

	pctx.Transcript = &output.Transcript
	pctx.AppendEvent(domain.FinalTranscriptEvent(output.Transcript))
	return nil
}

// resolveLanguageHint passes the hint through for Fr/En/Other (lowercased,
// trimmed for Other), and nils it out for Auto or absent so the decoder
// selects the language automatically.
func resolveLanguageHint(hint *domain.LanguageTag) *domain.LanguageTag {
	if hint == nil || hint.IsAuto() {
		return nil
	}
	if code, ok := hint.Other(); ok {
		trimmed := strings.ToLower(strings.TrimSpace(code))
		if normalized, err := domain.OtherLanguage(trimmed); err == nil {
			return &normalized
		}
		return nil
	}
	resolved := *hint
	return &resolved
}
