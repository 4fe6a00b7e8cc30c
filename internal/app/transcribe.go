// Package app hosts the session use-cases binding a one-shot request or a
// streaming connection to a fresh PipelineContext and driving it through an
// Engine.
package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
	"github.com/Djoe-Denne/vocal-agent/internal/logging"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline"
)

// TranscribeRequest is the one-shot request shape (§6.1).
type TranscribeRequest struct {
	Samples      []float32
	SampleRateHz *uint32
	LanguageHint *string
	SessionID    *string
}

// TranscribeResponse is the one-shot response shape (§6.1).
type TranscribeResponse struct {
	SessionID    string
	Transcript   domain.Transcript
	AlignedWords []domain.WordTiming
	Text         string
}

// TranscribeUseCase binds a TranscribeRequest to a PipelineContext and
// drives it through an Engine.
type TranscribeUseCase struct {
	engine              *pipeline.Engine
	defaultSampleRateHz uint32
}

// NewTranscribeUseCase builds a TranscribeUseCase over engine.
func NewTranscribeUseCase(engine *pipeline.Engine, defaultSampleRateHz uint32) *TranscribeUseCase {
	return &TranscribeUseCase{engine: engine, defaultSampleRateHz: defaultSampleRateHz}
}

// Transcribe validates req, builds a fresh PipelineContext, runs the engine
// over it, and assembles the response from the resulting context.
func (u *TranscribeUseCase) Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResponse, error) {
	if err := validateTranscribeRequest(req); err != nil {
		return nil, err
	}

	sampleRateHz := u.defaultSampleRateHz
	if req.SampleRateHz != nil {
		sampleRateHz = *req.SampleRateHz
	}

	languageHint, err := parseLanguageHint(req.LanguageHint)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}

	logging.DebugContext(ctx, "starting asr transcription",
		"sample_count", len(req.Samples),
		"sample_rate_hz", sampleRateHz,
		"session_id", sessionID,
	)

	pctx := domain.NewPipelineContext(sessionID)
	pctx.LanguageHint = languageHint
	pctx.Audio.Samples = req.Samples
	pctx.Audio.SampleRateHz = sampleRateHz
	pctx.SetExtension("audio.request_sample_rate_hz", sampleRateHz)

	if err := u.engine.Run(ctx, pctx); err != nil {
		return nil, err
	}

	if pctx.Transcript == nil {
		return nil, domainerr.ApplicationInternalError("transcription pipeline returned no transcript")
	}

	text := flattenText(*pctx.Transcript)
	alignedWords := selectAlignedWords(pctx)

	logging.DebugContext(ctx, "asr transcription completed", "segment_count", len(pctx.Transcript.Segments))

	return &TranscribeResponse{
		SessionID:    pctx.SessionID,
		Transcript:   *pctx.Transcript,
		AlignedWords: alignedWords,
		Text:         text,
	}, nil
}

func validateTranscribeRequest(req TranscribeRequest) error {
	if len(req.Samples) == 0 {
		return domainerr.ValidationError("samples must contain at least one frame")
	}
	if req.SampleRateHz != nil && (*req.SampleRateHz < 8000 || *req.SampleRateHz > 192000) {
		return domainerr.ValidationError("sample_rate_hz must be between 8000 and 192000")
	}
	if req.SessionID != nil && (len(*req.SessionID) < 1 || len(*req.SessionID) > 64) {
		return domainerr.ValidationError("session_id must be between 1 and 64 characters")
	}
	if req.LanguageHint != nil && (len(*req.LanguageHint) < 1 || len(*req.LanguageHint) > 16) {
		return domainerr.ValidationError("language_hint must be between 1 and 16 characters")
	}
	return nil
}

// parseLanguageHint implements the "fr"/"en"/"auto" → known variant, other
// non-empty → Other, empty string → Validation rule. A nil input returns a
// nil LanguageTag (no hint at all), distinct from an explicit "auto".
func parseLanguageHint(raw *string) (*domain.LanguageTag, error) {
	if raw == nil {
		return nil, nil
	}

	switch strings.ToLower(*raw) {
	case "fr":
		tag := domain.Fr
		return &tag, nil
	case "en":
		tag := domain.En
		return &tag, nil
	case "auto":
		tag := domain.Auto
		return &tag, nil
	default:
		trimmed := strings.ToLower(*raw)
		if trimmed == "" {
			return nil, domainerr.ValidationError("language_hint cannot be empty")
		}
		tag, err := domain.OtherLanguage(trimmed)
		if err != nil {
			return nil, domainerr.ValidationError("language_hint cannot be empty")
		}
		return &tag, nil
	}
}

// flattenText joins segments' trimmed texts, skipping empty parts, with
// single spaces.
func flattenText(transcript domain.Transcript) string {
	parts := make([]string, 0, len(transcript.Segments))
	for _, seg := range transcript.Segments {
		trimmed := strings.TrimSpace(seg.Text)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, " ")
}

// selectAlignedWords prefers ctx.AlignedWords; if empty, scans events for
// the last AlignmentUpdate; else returns an empty slice.
func selectAlignedWords(pctx *domain.PipelineContext) []domain.WordTiming {
	if len(pctx.AlignedWords) > 0 {
		return pctx.AlignedWords
	}
	for i := len(pctx.Events) - 1; i >= 0; i-- {
		if pctx.Events[i].Kind == domain.EventAlignmentUpdate {
			return pctx.Events[i].Words
		}
	}
	return nil
}
