// Package stt hosts the transcription backend contract (DecodePort) and the
// token-timing derivation used by the in-process whisper_transcription
// adapter.
package stt

import (
	"context"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
)

// RawToken is one decoder-emitted token before timing derivation. Hints are
// reported in raw decoder units (10 ms per unit); a nil hint means the
// decoder did not supply one.
type RawToken struct {
	Text        string
	DTWStartRaw *int64 // dynamic-time-warping-derived start hint
	EndHintRaw  *int64
	Probability float32
}

// RawSegment is one decoding window as the backend reports it, before
// conversion to domain.TranscriptSegment.
type RawSegment struct {
	StartRaw int64 // negative → skip, per decoder convention
	EndRaw   int64
	Tokens   []RawToken
}

// DecodePort is the minimal backend contract a whisper_transcription
// adapter depends on: turn audio plus an optional language hint into raw
// decoder segments. Model loading, state creation and the specific
// numerical internals of the acoustic model are out of scope for this
// core; implementations (real or fallback) live behind this interface.
type DecodePort interface {
	Decode(ctx context.Context, audio domain.AudioChunk, languageHint *domain.LanguageTag) ([]RawSegment, error)
}

// rawUnitMs is the millisecond duration of one raw decoder timestamp unit.
const rawUnitMs = 10

// rawToMs converts a raw decoder unit to milliseconds, per the "ms = raw *
// 10" convention; negative raw values are the decoder's "skip" marker and
// are never passed through this function by DeriveTranscript.
func rawToMs(raw int64) uint64 {
	if raw < 0 {
		return 0
	}
	return uint64(raw) * rawUnitMs
}

func clampU64(v, lo, hi uint64) uint64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DeriveTranscript converts raw decoder segments into a domain.Transcript,
// applying the token-timing derivation rules: fallback spans distribute a
// segment's duration evenly across its tokens, DTW/end hints override the
// fallback when present and sane, and every derived span is clamped so
// start < end within [segStart, max(segEnd, start+1)].
//
// language is the transcript's resolved language: the hint if provided,
// else Auto.
func DeriveTranscript(segments []RawSegment, languageHint *domain.LanguageTag) domain.Transcript {
	language := domain.Auto
	if languageHint != nil {
		language = *languageHint
	}

	out := make([]domain.TranscriptSegment, 0, len(segments))
	for _, raw := range segments {
		if raw.StartRaw < 0 || raw.EndRaw < 0 {
			continue
		}
		segStart := rawToMs(raw.StartRaw)
		segEnd := rawToMs(raw.EndRaw)
		if segEnd < segStart {
			segEnd = segStart
		}

		n := len(raw.Tokens)
		tokenSpan := uint64(1)
		if n > 0 && segEnd > segStart {
			tokenSpan = (segEnd - segStart) / uint64(n)
			if tokenSpan == 0 {
				tokenSpan = 1
			}
		}

		tokens := make([]domain.TranscriptToken, 0, n)
		for i, tok := range raw.Tokens {
			fallbackStart := segStart + uint64(i)*tokenSpan
			fallbackEnd := fallbackStart + tokenSpan
			if fallbackEnd > segEnd {
				fallbackEnd = segEnd
			}

			startMs := fallbackStart
			if tok.DTWStartRaw != nil && *tok.DTWStartRaw >= 0 {
				startMs = rawToMs(*tok.DTWStartRaw)
			}
			startMs = clampU64(startMs, segStart, segEnd)

			var endMs uint64
			switch {
			case tok.EndHintRaw != nil && *tok.EndHintRaw >= 0 && rawToMs(*tok.EndHintRaw) > startMs:
				endMs = rawToMs(*tok.EndHintRaw)
			case i+1 < n && raw.Tokens[i+1].DTWStartRaw != nil && *raw.Tokens[i+1].DTWStartRaw >= 0 &&
				rawToMs(*raw.Tokens[i+1].DTWStartRaw) > startMs:
				endMs = rawToMs(*raw.Tokens[i+1].DTWStartRaw)
			default:
				endMs = fallbackEnd
			}
			minEnd := startMs + 1
			maxEnd := segEnd
			if maxEnd < minEnd {
				maxEnd = minEnd
			}
			endMs = clampU64(endMs, minEnd, maxEnd)

			tokens = append(tokens, domain.TranscriptToken{
				Text:       tok.Text,
				StartMs:    startMs,
				EndMs:      endMs,
				Confidence: tok.Probability,
			})
		}

		text := ""
		for i, tok := range tokens {
			if i > 0 {
				text += " "
			}
			text += tok.Text
		}

		out = append(out, domain.TranscriptSegment{
			Text:    text,
			StartMs: segStart,
			EndMs:   segEnd,
			Tokens:  tokens,
		})
	}

	return domain.Transcript{Language: language, Segments: out}
}
