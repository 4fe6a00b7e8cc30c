package align_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djoe-Denne/vocal-agent/internal/align"
	"github.com/Djoe-Denne/vocal-agent/internal/domain"
)

func TestSimpleForcedAlignerUsesTokenTimingsWhenPresent(t *testing.T) {
	aligner := align.NewSimpleForcedAligner(20)
	transcript := domain.Transcript{
		Segments: []domain.TranscriptSegment{
			{
				Tokens: []domain.TranscriptToken{
					{Text: "hi", StartMs: 0, EndMs: 100, Confidence: 0.9},
					{Text: "[_TT_5]", StartMs: 100, EndMs: 110},
				},
			},
		},
	}

	out, err := aligner.Align(context.Background(), align.Request{Transcript: transcript})
	require.NoError(t, err)
	require.Len(t, out.Words, 1)
	assert.Equal(t, "hi", out.Words[0].Word)
	assert.Equal(t, uint64(100), out.Words[0].EndMs)
}

// TestSimpleForcedAlignerWhitespaceFallbackIsAsymmetric pins the
// intentionally-preserved quirk: in the whitespace-splitting fallback, the
// first synthesized word's span is not halved like subsequent words'.
func TestSimpleForcedAlignerWhitespaceFallbackIsAsymmetric(t *testing.T) {
	aligner := align.NewSimpleForcedAligner(10)
	transcript := domain.Transcript{
		Segments: []domain.TranscriptSegment{
			{Text: "alpha beta gamma", StartMs: 0, EndMs: 300},
		},
	}

	out, err := aligner.Align(context.Background(), align.Request{Transcript: transcript})
	require.NoError(t, err)
	require.Len(t, out.Words, 3)

	firstSpan := out.Words[0].EndMs - out.Words[0].StartMs
	secondSpan := out.Words[1].EndMs - out.Words[1].StartMs
	assert.Greater(t, firstSpan, secondSpan)
}

func TestSimpleForcedAlignerSkipsControlTokens(t *testing.T) {
	aligner := align.NewSimpleForcedAligner(10)
	transcript := domain.Transcript{
		Segments: []domain.TranscriptSegment{
			{
				Tokens: []domain.TranscriptToken{
					{Text: "  ", StartMs: 0, EndMs: 10},
					{Text: "[_TT_1]", StartMs: 10, EndMs: 20},
					{Text: "word", StartMs: 20, EndMs: 30},
				},
			},
		},
	}

	out, err := aligner.Align(context.Background(), align.Request{Transcript: transcript})
	require.NoError(t, err)
	require.Len(t, out.Words, 1)
	assert.Equal(t, "word", out.Words[0].Word)
}
