package remote

import (
	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
)

// Wire numeric codes for LanguageTag, per the remote RPC shapes: Fr=1,
// En=2, Auto=3, Other=4 with Other populated iff code=4 (non-empty).
const (
	languageCodeFr    = 1
	languageCodeEn    = 2
	languageCodeAuto  = 3
	languageCodeOther = 4
)

type languageTagWire struct {
	Code  int32  `json:"code"`
	Other string `json:"other,omitempty"`
}

func languageToWire(tag domain.LanguageTag) languageTagWire {
	switch {
	case tag.IsFr():
		return languageTagWire{Code: languageCodeFr}
	case tag.IsEn():
		return languageTagWire{Code: languageCodeEn}
	case tag.IsAuto():
		return languageTagWire{Code: languageCodeAuto}
	default:
		code, _ := tag.Other()
		return languageTagWire{Code: languageCodeOther, Other: code}
	}
}

func languageFromWire(wire languageTagWire) (domain.LanguageTag, error) {
	switch wire.Code {
	case languageCodeFr:
		return domain.Fr, nil
	case languageCodeEn:
		return domain.En, nil
	case languageCodeAuto:
		return domain.Auto, nil
	case languageCodeOther:
		if wire.Other == "" {
			return domain.LanguageTag{}, domainerr.InternalError("language.other is required when code is OTHER")
		}
		return domain.OtherLanguage(wire.Other)
	default:
		return domain.LanguageTag{}, domainerr.InternalError("invalid language tag code")
	}
}

type tokenWire struct {
	Text       string  `json:"text"`
	StartMs    uint64  `json:"start_ms"`
	EndMs      uint64  `json:"end_ms"`
	Confidence float32 `json:"confidence"`
}

type segmentWire struct {
	Text    string      `json:"text"`
	StartMs uint64      `json:"start_ms"`
	EndMs   uint64      `json:"end_ms"`
	Tokens  []tokenWire `json:"tokens"`
}

type transcriptWire struct {
	Language languageTagWire `json:"language"`
	Segments []segmentWire   `json:"segments"`
}

func transcriptToWire(t domain.Transcript) transcriptWire {
	segments := make([]segmentWire, 0, len(t.Segments))
	for _, seg := range t.Segments {
		tokens := make([]tokenWire, 0, len(seg.Tokens))
		for _, tok := range seg.Tokens {
			tokens = append(tokens, tokenWire{
				Text: tok.Text, StartMs: tok.StartMs, EndMs: tok.EndMs, Confidence: tok.Confidence,
			})
		}
		segments = append(segments, segmentWire{
			Text: seg.Text, StartMs: seg.StartMs, EndMs: seg.EndMs, Tokens: tokens,
		})
	}
	return transcriptWire{Language: languageToWire(t.Language), Segments: segments}
}

func transcriptFromWire(w transcriptWire) (domain.Transcript, error) {
	language, err := languageFromWire(w.Language)
	if err != nil {
		return domain.Transcript{}, err
	}
	segments := make([]domain.TranscriptSegment, 0, len(w.Segments))
	for _, seg := range w.Segments {
		tokens := make([]domain.TranscriptToken, 0, len(seg.Tokens))
		for _, tok := range seg.Tokens {
			tokens = append(tokens, domain.TranscriptToken{
				Text: tok.Text, StartMs: tok.StartMs, EndMs: tok.EndMs, Confidence: tok.Confidence,
			})
		}
		segments = append(segments, domain.TranscriptSegment{
			Text: seg.Text, StartMs: seg.StartMs, EndMs: seg.EndMs, Tokens: tokens,
		})
	}
	return domain.Transcript{Language: language, Segments: segments}, nil
}

type wordWire struct {
	Word       string  `json:"word"`
	StartMs    uint64  `json:"start_ms"`
	EndMs      uint64  `json:"end_ms"`
	Confidence float32 `json:"confidence"`
}

func wordsToWire(words []domain.WordTiming) []wordWire {
	out := make([]wordWire, 0, len(words))
	for _, w := range words {
		out = append(out, wordWire{Word: w.Word, StartMs: w.StartMs, EndMs: w.EndMs, Confidence: w.Confidence})
	}
	return out
}

func wordsFromWire(words []wordWire) []domain.WordTiming {
	out := make([]domain.WordTiming, 0, len(words))
	for _, w := range words {
		out = append(out, domain.WordTiming{Word: w.Word, StartMs: w.StartMs, EndMs: w.EndMs, Confidence: w.Confidence})
	}
	return out
}

type transformAudioRequest struct {
	Samples          []float32 `json:"samples"`
	SampleRateHz     uint32    `json:"sample_rate_hz"`
	TargetSampleRateHz uint32  `json:"target_sample_rate_hz"`
	SessionID        string    `json:"session_id"`
}

type transformAudioResponse struct {
	Samples      []float32 `json:"samples"`
	SampleRateHz uint32    `json:"sample_rate_hz"`
	Resampled    bool      `json:"resampled"`
	SessionID    string    `json:"session_id"`
}

type transcribeRequest struct {
	Samples      []float32       `json:"samples"`
	SampleRateHz uint32          `json:"sample_rate_hz"`
	Language     languageTagWire `json:"language"`
	SessionID    string          `json:"session_id"`
}

type transcribeResponse struct {
	Transcript transcriptWire `json:"transcript"`
	SessionID  string         `json:"session_id"`
}

type enrichTranscriptRequest struct {
	Samples      []float32      `json:"samples"`
	SampleRateHz uint32         `json:"sample_rate_hz"`
	Transcript   transcriptWire `json:"transcript"`
	SessionID    string         `json:"session_id"`
}

type enrichTranscriptResponse struct {
	Transcript   transcriptWire `json:"transcript"`
	AlignedWords []wordWire     `json:"aligned_words"`
	SessionID    string         `json:"session_id"`
	Text         string         `json:"text"`
}
