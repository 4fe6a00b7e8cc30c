package streaming

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
	"github.com/Djoe-Denne/vocal-agent/internal/logging"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline"
)

// sessionState is the three-state machine every streaming connection moves
// through: Unstarted until a valid "start" envelope arrives, Active while
// audio frames are accepted and flushed, Terminal once stopped or closed.
type sessionState int

const (
	stateUnstarted sessionState = iota
	stateActive
	stateTerminal
)

// Session drives one streaming connection's PipelineContext through an
// Engine, independent of the transport carrying the envelopes. The
// websocket-facing loop lives in server.go; this type is exercised directly
// by tests without opening a real socket.
type Session struct {
	engine              *pipeline.Engine
	defaultSampleRateHz uint32

	state sessionState
	pctx  *domain.PipelineContext
}

// NewSession builds a Session bound to engine, not yet started.
func NewSession(engine *pipeline.Engine, defaultSampleRateHz uint32) *Session {
	return &Session{engine: engine, defaultSampleRateHz: defaultSampleRateHz, state: stateUnstarted}
}

// HandleText processes one inbound JSON text message and returns the
// server messages to send in response, in order.
func (s *Session) HandleText(ctx context.Context, raw []byte) ([][]byte, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return s.fail(fmt.Sprintf("malformed envelope: %v", err))
	}

	if err := checkProtocolVersion(env.Version); err != nil {
		msg, encErr := encodeServerMessage(serverError, errorPayload{Message: err.Error()})
		if encErr != nil {
			return nil, false
		}
		return [][]byte{msg}, false
	}

	switch clientMessageType(env.Type) {
	case clientStart:
		return s.handleStart(ctx, env.Payload)
	case clientAudioFrame:
		return s.handleAudioFrame(ctx, env.Payload)
	case clientFlush:
		return s.handleFlush(ctx)
	case clientStop:
		return s.handleStop(ctx)
	case clientPing:
		return s.handlePing()
	case clientClose:
		s.state = stateTerminal
		return nil, true
	default:
		return s.fail(fmt.Sprintf("unknown message type %q", env.Type))
	}
}

// HandleBinary rejects binary websocket frames: the protocol carries audio
// as JSON arrays of float32 numbers inside audio_frame messages, never as
// raw binary frames. The session keeps its state and the connection stays
// open.
func (s *Session) HandleBinary() ([][]byte, bool) {
	msg, err := encodeServerMessage(serverError, errorPayload{Message: "binary frames are not supported; use JSON audio_frame"})
	if err != nil {
		return nil, false
	}
	return [][]byte{msg}, false
}

func (s *Session) handleStart(ctx context.Context, payload json.RawMessage) ([][]byte, bool) {
	if s.state != stateUnstarted {
		return s.fail("start must be sent first")
	}

	var body startPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &body); err != nil {
			return s.fail(fmt.Sprintf("malformed start payload: %v", err))
		}
	}

	sessionID := uuid.NewString()
	if body.SessionID != nil && *body.SessionID != "" {
		sessionID = *body.SessionID
	}

	pctx := domain.NewPipelineContext(sessionID)
	pctx.LanguageHint = body.LanguageHint
	pctx.Audio.SampleRateHz = s.defaultSampleRateHz

	s.pctx = pctx
	s.state = stateActive

	logging.DebugContext(ctx, "streaming session started", "session_id", sessionID)

	msg, err := encodeServerMessage(serverReady, readyPayload{SessionID: sessionID})
	if err != nil {
		return s.fail(err.Error())
	}
	return [][]byte{msg}, false
}

func (s *Session) handleAudioFrame(ctx context.Context, payload json.RawMessage) ([][]byte, bool) {
	if s.state != stateActive {
		return s.fail("start must be sent first")
	}

	var body audioFramePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return s.fail(fmt.Sprintf("malformed audio_frame payload: %v", err))
	}

	s.pctx.Audio.Samples = append(s.pctx.Audio.Samples, body.PcmF32...)
	return nil, false
}

// handleFlush runs the engine over the audio accumulated so far and emits
// every drained event as its corresponding server message. Per the
// drain-then-error-then-close decision, a run failure still drains and
// forwards whatever events were appended before the failing stage, then
// reports the error and closes the connection. Samples are retained across
// a successful flush so later audio_frame messages extend the same buffer.
func (s *Session) handleFlush(ctx context.Context) ([][]byte, bool) {
	if s.state != stateActive {
		return s.fail("start must be sent first")
	}

	runErr := s.engine.Run(ctx, s.pctx)
	drained := s.pctx.DrainEvents()

	messages, err := encodeEvents(drained)
	if err != nil {
		return s.fail(err.Error())
	}

	if runErr != nil {
		errMsg, encErr := encodeServerMessage(serverError, errorPayload{Message: runErr.Error()})
		if encErr != nil {
			return s.fail(encErr.Error())
		}
		s.state = stateTerminal
		return append(messages, errMsg), true
	}

	return messages, false
}

// handleStop runs a final flush (if any audio remains unflushed makes no
// difference: Run is idempotent over the same context shape) and then
// transitions the session to Terminal regardless of outcome.
func (s *Session) handleStop(ctx context.Context) ([][]byte, bool) {
	if s.state != stateActive {
		return s.fail("start must be sent first")
	}

	runErr := s.engine.Run(ctx, s.pctx)
	drained := s.pctx.DrainEvents()

	messages, err := encodeEvents(drained)
	if err != nil {
		return s.fail(err.Error())
	}

	s.state = stateTerminal

	if runErr != nil {
		errMsg, encErr := encodeServerMessage(serverError, errorPayload{Message: runErr.Error()})
		if encErr != nil {
			return messages, true
		}
		return append(messages, errMsg), true
	}

	return messages, true
}

func (s *Session) handlePing() ([][]byte, bool) {
	msg, err := encodeServerMessage(serverPong, nil)
	if err != nil {
		return s.fail(err.Error())
	}
	return [][]byte{msg}, false
}

func (s *Session) fail(message string) ([][]byte, bool) {
	s.state = stateTerminal
	msg, err := encodeServerMessage(serverError, errorPayload{Message: message})
	if err != nil {
		return nil, true
	}
	return [][]byte{msg}, true
}

func encodeEvents(events []domain.DomainEvent) ([][]byte, error) {
	messages := make([][]byte, 0, len(events))
	for _, event := range events {
		var (
			msg []byte
			err error
		)
		switch event.Kind {
		case domain.EventFinalTranscript:
			msg, err = encodeServerMessage(serverFinalTranscript, transcriptPayload{Transcript: event.Transcript})
		case domain.EventAlignmentUpdate:
			msg, err = encodeServerMessage(serverAlignmentUpdate, alignmentUpdatePayload{Words: event.Words})
		default:
			err = domainerr.InternalErrorf("unknown domain event kind %d", event.Kind)
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
