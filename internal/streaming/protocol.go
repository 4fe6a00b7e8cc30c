// Package streaming implements the streaming session protocol driver: the
// JSON envelope types, the Unstarted/Active/Terminal state machine, and the
// gorilla/websocket-backed duplex message loop wrapping the pipeline
// engine.
package streaming

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
)

// ProtocolVersion is the single supported protocol major version.
// checkProtocolVersion turns both it and the inbound version into semver
// versions ("N.0.0") and compares only their major components; since the
// envelope carries a bare integer, this accepts exactly version 1 — the
// same set of inbound messages a plain integer equality check would.
const ProtocolVersion = 1

var protocolConstraint = semver.MustParse(fmt.Sprintf("%d.0.0", ProtocolVersion))

// checkProtocolVersion returns an error with the exact required message
// when version's major component does not match ProtocolVersion.
func checkProtocolVersion(version uint32) error {
	candidate, err := semver.NewVersion(fmt.Sprintf("%d.0.0", version))
	if err != nil || candidate.Major() != protocolConstraint.Major() {
		return fmt.Errorf("unsupported protocol version %d, expected %d", version, ProtocolVersion)
	}
	return nil
}

// clientMessageType enumerates the inbound message tags.
type clientMessageType string

const (
	clientStart      clientMessageType = "start"
	clientAudioFrame clientMessageType = "audio_frame"
	clientFlush      clientMessageType = "flush"
	clientStop       clientMessageType = "stop"
	clientPing       clientMessageType = "ping"
	clientClose      clientMessageType = "close"
)

// serverMessageType enumerates the outbound message tags.
type serverMessageType string

const (
	serverReady serverMessageType = "ready"
	// serverPartialTranscript is part of the protocol surface but has no
	// producer yet: no stage in this pipeline emits an intermediate
	// transcript event, only EventFinalTranscript.
	serverPartialTranscript serverMessageType = "partial_transcript"
	serverFinalTranscript   serverMessageType = "final_transcript"
	serverAlignmentUpdate   serverMessageType = "alignment_update"
	serverError             serverMessageType = "error"
	serverPong              serverMessageType = "pong"
)

// envelope is the wire shape shared by every inbound and outbound message.
type envelope struct {
	Version uint32          `json:"version"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type startPayload struct {
	SessionID    *string             `json:"session_id,omitempty"`
	LanguageHint *domain.LanguageTag `json:"language_hint,omitempty"`
}

type audioFramePayload struct {
	PcmF32 []float32 `json:"pcm_f32"`
}

type readyPayload struct {
	SessionID string `json:"session_id"`
}

type transcriptPayload struct {
	Transcript domain.Transcript `json:"transcript"`
}

type alignmentUpdatePayload struct {
	Words []domain.WordTiming `json:"words"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func encodeServerMessage(msgType serverMessageType, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}
	return json.Marshal(envelope{Version: ProtocolVersion, Type: string(msgType), Payload: raw})
}
