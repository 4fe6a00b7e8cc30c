package stt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/stt"
)

func ptr(v int64) *int64 { return &v }

func TestDeriveTranscriptFallbackDistributesSpanEvenly(t *testing.T) {
	segments := []stt.RawSegment{
		{
			StartRaw: 0,
			EndRaw:   100,
			Tokens: []stt.RawToken{
				{Text: "hi", Probability: 0.9},
				{Text: "there", Probability: 0.8},
			},
		},
	}

	transcript := stt.DeriveTranscript(segments, nil)
	require.Len(t, transcript.Segments, 1)
	require.Len(t, transcript.Segments[0].Tokens, 2)

	first := transcript.Segments[0].Tokens[0]
	second := transcript.Segments[0].Tokens[1]
	assert.Less(t, first.StartMs, first.EndMs)
	assert.LessOrEqual(t, first.EndMs, second.StartMs)
	assert.Less(t, second.StartMs, second.EndMs)
	assert.LessOrEqual(t, second.EndMs, transcript.Segments[0].EndMs)
}

func TestDeriveTranscriptPrefersDTWHintOverFallback(t *testing.T) {
	segments := []stt.RawSegment{
		{
			StartRaw: 0,
			EndRaw:   1000,
			Tokens: []stt.RawToken{
				{Text: "a", DTWStartRaw: ptr(5)},
			},
		},
	}

	transcript := stt.DeriveTranscript(segments, nil)
	require.Len(t, transcript.Segments[0].Tokens, 1)
	assert.Equal(t, uint64(50), transcript.Segments[0].Tokens[0].StartMs)
}

func TestDeriveTranscriptSkipsNegativeRawSegments(t *testing.T) {
	segments := []stt.RawSegment{
		{StartRaw: -1, EndRaw: 10},
		{StartRaw: 0, EndRaw: 10, Tokens: []stt.RawToken{{Text: "ok"}}},
	}

	transcript := stt.DeriveTranscript(segments, nil)
	require.Len(t, transcript.Segments, 1)
	assert.Equal(t, "ok", transcript.Segments[0].Tokens[0].Text)
}

func TestDeriveTranscriptDefaultsLanguageToAutoWithoutHint(t *testing.T) {
	transcript := stt.DeriveTranscript(nil, nil)
	assert.True(t, transcript.Language.IsAuto())
}

func TestDeriveTranscriptUsesProvidedLanguageHint(t *testing.T) {
	fr := domain.Fr
	transcript := stt.DeriveTranscript(nil, &fr)
	assert.True(t, transcript.Language.IsFr())
}
