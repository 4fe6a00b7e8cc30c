package stt

import (
	"context"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
)

// FallbackDecoder stands in for the real acoustic model when no native
// backend is linked in. It never fails: it reports the entire audio chunk
// as one raw segment and splits it into evenly spaced placeholder tokens,
// so the token-timing derivation rules in DeriveTranscript still exercise
// their full path even without a real decoder attached.
//
// samplesPerToken controls how finely the placeholder segment is split;
// it is not part of the specified contract and exists only so this
// fallback produces a plausible multi-token transcript.
type FallbackDecoder struct {
	samplesPerToken int
}

// NewFallbackDecoder builds a FallbackDecoder. samplesPerToken must be
// positive; NewFallbackDecoder defaults it to 1600 (100 ms at 16 kHz) when
// given a non-positive value.
func NewFallbackDecoder(samplesPerToken int) *FallbackDecoder {
	if samplesPerToken <= 0 {
		samplesPerToken = 1600
	}
	return &FallbackDecoder{samplesPerToken: samplesPerToken}
}

func (d *FallbackDecoder) Decode(_ context.Context, audio domain.AudioChunk, _ *domain.LanguageTag) ([]RawSegment, error) {
	n := len(audio.Samples)
	if n == 0 {
		return nil, nil
	}

	durationMs := int64(n) * 1000 / int64(audio.SampleRateHz)
	startRaw := int64(0)
	endRaw := durationMs / rawUnitMs
	if endRaw <= startRaw {
		endRaw = startRaw + 1
	}

	tokenCount := (n + d.samplesPerToken - 1) / d.samplesPerToken
	if tokenCount < 1 {
		tokenCount = 1
	}

	tokens := make([]RawToken, tokenCount)
	for i := range tokens {
		tokens[i] = RawToken{Text: "...", Probability: 0.5}
	}

	return []RawSegment{{StartRaw: startRaw, EndRaw: endRaw, Tokens: tokens}}, nil
}
