package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
)

func TestLanguageMappingRoundTrips(t *testing.T) {
	other, err := domain.OtherLanguage("de")
	require.NoError(t, err)

	for _, tag := range []domain.LanguageTag{domain.Fr, domain.En, domain.Auto, other} {
		wire := languageToWire(tag)
		back, err := languageFromWire(wire)
		require.NoError(t, err)
		assert.Equal(t, tag, back)
	}
}

func TestLanguageFromWireRejectsEmptyOtherCode(t *testing.T) {
	_, err := languageFromWire(languageTagWire{Code: languageCodeOther, Other: ""})
	assert.ErrorContains(t, err, "language.other is required when code is OTHER")
}

func TestLanguageFromWireRejectsUnknownCode(t *testing.T) {
	_, err := languageFromWire(languageTagWire{Code: 99})
	assert.ErrorContains(t, err, "invalid language tag code")
}

func TestTranscriptRoundTripPreservesTokens(t *testing.T) {
	transcript := domain.Transcript{
		Language: domain.En,
		Segments: []domain.TranscriptSegment{
			{
				Text:    "hello world",
				StartMs: 0,
				EndMs:   500,
				Tokens: []domain.TranscriptToken{
					{Text: "hello", StartMs: 0, EndMs: 200, Confidence: 0.9},
					{Text: "world", StartMs: 200, EndMs: 500, Confidence: 0.8},
				},
			},
		},
	}

	back, err := transcriptFromWire(transcriptToWire(transcript))
	require.NoError(t, err)
	assert.Equal(t, transcript, back)
}

func TestWordsRoundTrip(t *testing.T) {
	words := []domain.WordTiming{{Word: "hi", StartMs: 0, EndMs: 100, Confidence: 0.5}}
	assert.Equal(t, words, wordsFromWire(wordsToWire(words)))
}
