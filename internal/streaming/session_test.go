package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline/stage"
)

type fakeStage struct {
	name string
	run  func(pctx *domain.PipelineContext) error
}

func (s *fakeStage) Name() string { return s.name }

func (s *fakeStage) Execute(_ context.Context, pctx *domain.PipelineContext) error {
	return s.run(pctx)
}

type fakeLoader map[string]stage.Stage

func (l fakeLoader) LoadStep(spec domain.PipelineStepSpec) (stage.Stage, error) {
	s, ok := l[spec.Name]
	if !ok {
		return nil, errors.New("unknown step")
	}
	return s, nil
}

func newTestEngine(t *testing.T, transcribeErr error) *pipeline.Engine {
	t.Helper()

	transcription := &fakeStage{name: "whisper_transcription", run: func(pctx *domain.PipelineContext) error {
		if transcribeErr != nil {
			return transcribeErr
		}
		transcript := domain.Transcript{Segments: []domain.TranscriptSegment{{Text: "hi"}}}
		pctx.Transcript = &transcript
		pctx.AppendEvent(domain.FinalTranscriptEvent(transcript))
		return nil
	}}
	alignment := &fakeStage{name: "wav2vec2_alignment", run: func(pctx *domain.PipelineContext) error {
		words := []domain.WordTiming{{Word: "hi", StartMs: 0, EndMs: 50}}
		pctx.AppendEvent(domain.AlignmentUpdateEvent(words))
		return nil
	}}

	loader := fakeLoader{"whisper_transcription": transcription, "wav2vec2_alignment": alignment}
	def := domain.PipelineDefinition{
		Transcription: domain.PipelineStepSpec{Name: "whisper_transcription"},
		Post:          []domain.PipelineStepSpec{{Name: "wav2vec2_alignment"}},
	}
	engine, err := pipeline.FromDefinition(def, loader)
	require.NoError(t, err)
	return engine
}

func decodeEnvelope(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func startEnvelope(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(envelope{Version: ProtocolVersion, Type: string(clientStart)})
	require.NoError(t, err)
	return raw
}

func TestSessionRejectsMessagesBeforeStart(t *testing.T) {
	session := NewSession(newTestEngine(t, nil), domain.DefaultSampleRateHz)

	raw, _ := json.Marshal(envelope{Version: ProtocolVersion, Type: string(clientAudioFrame)})
	responses, closeAfter := session.HandleText(context.Background(), raw)

	require.Len(t, responses, 1)
	assert.True(t, closeAfter)
	env := decodeEnvelope(t, responses[0])
	assert.Equal(t, string(serverError), env.Type)
	assert.Contains(t, string(env.Payload), "start must be sent first")
}

func TestSessionStartThenFlushEmitsTranscriptAndAlignment(t *testing.T) {
	session := NewSession(newTestEngine(t, nil), domain.DefaultSampleRateHz)

	responses, closeAfter := session.HandleText(context.Background(), startEnvelope(t))
	require.Len(t, responses, 1)
	assert.False(t, closeAfter)
	assert.Equal(t, string(serverReady), decodeEnvelope(t, responses[0]).Type)

	frame, err := json.Marshal(envelope{
		Version: ProtocolVersion,
		Type:    string(clientAudioFrame),
		Payload: mustMarshal(t, audioFramePayload{PcmF32: []float32{0.1, 0.2}}),
	})
	require.NoError(t, err)
	responses, closeAfter = session.HandleText(context.Background(), frame)
	assert.Empty(t, responses)
	assert.False(t, closeAfter)

	flush, _ := json.Marshal(envelope{Version: ProtocolVersion, Type: string(clientFlush)})
	responses, closeAfter = session.HandleText(context.Background(), flush)
	require.Len(t, responses, 2)
	assert.False(t, closeAfter)
	assert.Equal(t, string(serverFinalTranscript), decodeEnvelope(t, responses[0]).Type)
	assert.Equal(t, string(serverAlignmentUpdate), decodeEnvelope(t, responses[1]).Type)
}

func TestSessionFlushFailureDrainsThenErrorsThenCloses(t *testing.T) {
	boom := errors.New("decode exploded")
	session := NewSession(newTestEngine(t, boom), domain.DefaultSampleRateHz)

	session.HandleText(context.Background(), startEnvelope(t))

	flush, _ := json.Marshal(envelope{Version: ProtocolVersion, Type: string(clientFlush)})
	responses, closeAfter := session.HandleText(context.Background(), flush)

	require.Len(t, responses, 1)
	assert.True(t, closeAfter)
	env := decodeEnvelope(t, responses[0])
	assert.Equal(t, string(serverError), env.Type)
	assert.Contains(t, string(env.Payload), "decode exploded")
}

func TestSessionStopTerminatesConnection(t *testing.T) {
	session := NewSession(newTestEngine(t, nil), domain.DefaultSampleRateHz)
	session.HandleText(context.Background(), startEnvelope(t))

	stop, _ := json.Marshal(envelope{Version: ProtocolVersion, Type: string(clientStop)})
	responses, closeAfter := session.HandleText(context.Background(), stop)

	require.True(t, closeAfter)
	require.NotEmpty(t, responses)
	assert.Equal(t, stateTerminal, session.state)
}

func TestSessionPingBeforeStartReturnsPong(t *testing.T) {
	session := NewSession(newTestEngine(t, nil), domain.DefaultSampleRateHz)
	ping, _ := json.Marshal(envelope{Version: ProtocolVersion, Type: string(clientPing)})

	responses, closeAfter := session.HandleText(context.Background(), ping)
	require.Len(t, responses, 1)
	assert.False(t, closeAfter)
	assert.Equal(t, string(serverPong), decodeEnvelope(t, responses[0]).Type)
}

func TestSessionPingAfterStartReturnsPong(t *testing.T) {
	session := NewSession(newTestEngine(t, nil), domain.DefaultSampleRateHz)
	session.HandleText(context.Background(), startEnvelope(t))

	ping, _ := json.Marshal(envelope{Version: ProtocolVersion, Type: string(clientPing)})
	responses, closeAfter := session.HandleText(context.Background(), ping)

	require.Len(t, responses, 1)
	assert.False(t, closeAfter)
	assert.Equal(t, string(serverPong), decodeEnvelope(t, responses[0]).Type)
}

func TestSessionRejectsBinaryFrames(t *testing.T) {
	session := NewSession(newTestEngine(t, nil), domain.DefaultSampleRateHz)
	responses, closeAfter := session.HandleBinary()

	require.Len(t, responses, 1)
	assert.False(t, closeAfter)
	assert.Contains(t, string(responses[0]), "binary frames are not supported; use JSON audio_frame")
}

func TestSessionRejectsProtocolVersionMismatch(t *testing.T) {
	session := NewSession(newTestEngine(t, nil), domain.DefaultSampleRateHz)
	raw, _ := json.Marshal(envelope{Version: 7, Type: string(clientStart)})

	responses, closeAfter := session.HandleText(context.Background(), raw)
	require.Len(t, responses, 1)
	assert.False(t, closeAfter)
	assert.Contains(t, string(responses[0]), "unsupported protocol version 7, expected 1")
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
