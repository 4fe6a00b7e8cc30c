package stt

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
)

// TranscriptionRequest carries the audio to decode plus an optional
// language hint.
type TranscriptionRequest struct {
	LanguageHint *domain.LanguageTag
	Audio        domain.AudioChunk
}

// TranscriptionOutput carries the decoded transcript.
type TranscriptionOutput struct {
	Transcript domain.Transcript
}

// TranscriptionPort is the contract the whisper_transcription stage
// depends on. WhisperAdapter is the only implementation in this module; a
// remote deployment instead uses internal/remote's RPC-backed stage, which
// satisfies the stage.Stage contract directly rather than this port.
type TranscriptionPort interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionOutput, error)
}

// AdapterConfig configures a WhisperAdapter. Its fields are accepted for
// parity with a real whisper.cpp-style backend's configuration surface;
// neither WhisperAdapter nor FallbackDecoder (the only DecodePort
// implementation carried by this module) reads any of them.
type AdapterConfig struct {
	ModelPath       string
	DefaultLanguage string
	Temperature     float64
	Threads         int
	DTWPreset       string
	DTWMemSize      int
}

// WhisperAdapter serializes access to a non-thread-safe DecodePort handle
// behind a mutex, per the "at most one decode proceeds at a time per stage
// instance" concurrency rule, and derives a domain.Transcript from its raw
// output. A singleflight.Group additionally collapses duplicate concurrent
// decode attempts keyed on the address of the request's sample buffer; the
// pipeline contract already forbids concurrent Execute calls on one
// context, so this only guards against a caller bug invoking Transcribe
// twice with the same audio.
type WhisperAdapter struct {
	config  AdapterConfig
	decoder DecodePort

	mu     sync.Mutex
	flight singleflight.Group
}

// NewWhisperAdapter builds a WhisperAdapter over the given decoder.
func NewWhisperAdapter(config AdapterConfig, decoder DecodePort) *WhisperAdapter {
	return &WhisperAdapter{config: config, decoder: decoder}
}

func (a *WhisperAdapter) Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionOutput, error) {
	sessionKey := fmt.Sprintf("%p", req.Audio.Samples)

	result, err, _ := a.flight.Do(sessionKey, func() (any, error) {
		a.mu.Lock()
		defer a.mu.Unlock()

		segments, decodeErr := a.decode(ctx, req)
		if decodeErr != nil {
			return nil, decodeErr
		}
		return DeriveTranscript(segments, req.LanguageHint), nil
	})
	if err != nil {
		return TranscriptionOutput{}, err
	}
	return TranscriptionOutput{Transcript: result.(domain.Transcript)}, nil
}

func (a *WhisperAdapter) decode(ctx context.Context, req TranscriptionRequest) (segments []RawSegment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domainerr.InternalError("whisper runtime lock poisoned")
		}
	}()

	segments, decodeErr := a.decoder.Decode(ctx, req.Audio, req.LanguageHint)
	if decodeErr != nil {
		return nil, domainerr.ExternalServiceErrorf("whisper", "decode failed: %v", decodeErr)
	}
	return segments, nil
}
