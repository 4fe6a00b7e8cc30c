// Package align implements the forced-alignment contract and the
// in-process fallback aligner used when no remote alignment backend is
// configured.
package align

import (
	"context"
	"strings"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
)

// Request carries the transcript to align.
type Request struct {
	Transcript domain.Transcript
}

// Output carries the aligner's per-word timings.
type Output struct {
	Words []domain.WordTiming
}

// Port is the contract the wav2vec2_alignment stage depends on.
type Port interface {
	Align(ctx context.Context, req Request) (Output, error)
}

// isControlToken reports whether a trimmed token looks like a decoder
// control token, e.g. "[_TT_123]", which the aligner must skip.
func isControlToken(token string) bool {
	return strings.HasPrefix(token, "[_") && strings.HasSuffix(token, "]")
}

// SimpleForcedAligner is the fallback Port used when no ML alignment
// backend is attached. It preserves the original's asymmetric word-duration
// behavior in the whitespace-splitting branch: the first synthesized word
// ends at start+each, but every subsequent word ends at
// max(start+minWordDurationMs, start+each/2) — halving its apparent
// duration relative to the first. This is intentionally not normalized;
// see the design notes on why the asymmetry is preserved.
type SimpleForcedAligner struct {
	minWordDurationMs uint64
}

// NewSimpleForcedAligner builds a SimpleForcedAligner with the given
// minimum word duration floor.
func NewSimpleForcedAligner(minWordDurationMs uint64) *SimpleForcedAligner {
	return &SimpleForcedAligner{minWordDurationMs: minWordDurationMs}
}

func (a *SimpleForcedAligner) Align(_ context.Context, req Request) (Output, error) {
	var words []domain.WordTiming

	for _, segment := range req.Transcript.Segments {
		if len(segment.Tokens) > 0 {
			for _, token := range segment.Tokens {
				trimmed := strings.TrimSpace(token.Text)
				if trimmed == "" || isControlToken(trimmed) {
					continue
				}
				end := token.EndMs
				minEnd := token.StartMs + a.minWordDurationMs
				if end < minEnd {
					end = minEnd
				}
				words = append(words, domain.WordTiming{
					Word:       trimmed,
					StartMs:    token.StartMs,
					EndMs:      end,
					Confidence: token.Confidence,
				})
			}
			continue
		}

		segmentWords := strings.Fields(segment.Text)
		if len(segmentWords) == 0 {
			continue
		}

		total := uint64(0)
		if segment.EndMs > segment.StartMs {
			total = segment.EndMs - segment.StartMs
		}
		each := total / uint64(len(segmentWords))
		if each < a.minWordDurationMs {
			each = a.minWordDurationMs
		}

		for idx, word := range segmentWords {
			start := segment.StartMs + uint64(idx)*each
			var end uint64
			if idx == 0 {
				end = start + each
			} else {
				halved := start + each/2
				floor := start + a.minWordDurationMs
				end = halved
				if floor > end {
					end = floor
				}
			}
			words = append(words, domain.WordTiming{
				Word:       word,
				StartMs:    start,
				EndMs:      end,
				Confidence: 0.8,
			})
		}
	}

	return Output{Words: words}, nil
}
