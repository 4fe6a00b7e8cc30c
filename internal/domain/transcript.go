package domain

// AudioChunk is raw PCM-f32 audio at a fixed sample rate. After any audio
// conditioning stage every sample lies in [-1.0, +1.0].
type AudioChunk struct {
	SampleRateHz uint32    `json:"sample_rate_hz"`
	Samples      []float32 `json:"samples"`
}

// TranscriptToken is a single decoded token with millisecond timing.
type TranscriptToken struct {
	Text       string  `json:"text"`
	StartMs    uint64  `json:"start_ms"`
	EndMs      uint64  `json:"end_ms"`
	Confidence float32 `json:"confidence"`
}

// TranscriptSegment groups tokens produced within one decoding window.
type TranscriptSegment struct {
	Text    string            `json:"text"`
	StartMs uint64            `json:"start_ms"`
	EndMs   uint64            `json:"end_ms"`
	Tokens  []TranscriptToken `json:"tokens"`
}

// WordTiming is the forced aligner's per-word output. Shares field shape
// with TranscriptToken but names the text field Word, matching the
// alignment domain's own vocabulary.
type WordTiming struct {
	Word       string  `json:"word"`
	StartMs    uint64  `json:"start_ms"`
	EndMs      uint64  `json:"end_ms"`
	Confidence float32 `json:"confidence"`
}

// Transcript is an ordered sequence of segments in one language.
type Transcript struct {
	Language LanguageTag         `json:"language"`
	Segments []TranscriptSegment `json:"segments"`
}
