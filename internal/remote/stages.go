package remote

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/domainerr"
)

const (
	audioTransformMethod    = "/vocalagent.audio.v1.AudioService/TransformAudio"
	asrTranscribeMethod     = "/vocalagent.asr.v1.AsrService/Transcribe"
	alignmentEnrichMethod   = "/vocalagent.alignment.v1.AlignmentService/EnrichTranscript"
)

// AudioTransformStage is the remote-mode stage backing the
// "audio_transform" step name: a thin RPC adapter to the sibling audio
// service, mirroring the in-process resample stage's inputs/outputs.
type AudioTransformStage struct {
	conn               *grpc.ClientConn
	requestTimeout     time.Duration
	targetSampleRateHz uint32
}

// NewAudioTransformStage builds an AudioTransformStage over conn.
func NewAudioTransformStage(conn *grpc.ClientConn, requestTimeout time.Duration, targetSampleRateHz uint32) *AudioTransformStage {
	return &AudioTransformStage{conn: conn, requestTimeout: requestTimeout, targetSampleRateHz: targetSampleRateHz}
}

func (s *AudioTransformStage) Name() string { return "audio_transform" }

func (s *AudioTransformStage) Execute(ctx context.Context, pctx *domain.PipelineContext) error {
	callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	req := &transformAudioRequest{
		Samples:            pctx.Audio.Samples,
		SampleRateHz:       pctx.Audio.SampleRateHz,
		TargetSampleRateHz: s.targetSampleRateHz,
		SessionID:          pctx.SessionID,
	}
	resp := &transformAudioResponse{}
	if err := invoke(callCtx, s.conn, audioTransformMethod, "audio", req, resp); err != nil {
		return err
	}

	pctx.Audio.Samples = resp.Samples
	pctx.Audio.SampleRateHz = resp.SampleRateHz
	pctx.SetExtension("audio.resampled", resp.Resampled)
	if resp.SessionID != "" {
		pctx.SessionID = resp.SessionID
	}
	return nil
}

// AsrTranscribeStage is the remote-mode stage backing "asr_transcribe".
type AsrTranscribeStage struct {
	conn           *grpc.ClientConn
	requestTimeout time.Duration
}

// NewAsrTranscribeStage builds an AsrTranscribeStage over conn.
func NewAsrTranscribeStage(conn *grpc.ClientConn, requestTimeout time.Duration) *AsrTranscribeStage {
	return &AsrTranscribeStage{conn: conn, requestTimeout: requestTimeout}
}

func (s *AsrTranscribeStage) Name() string { return "asr_transcribe" }

func (s *AsrTranscribeStage) Execute(ctx context.Context, pctx *domain.PipelineContext) error {
	callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	hint := domain.Auto
	if pctx.LanguageHint != nil {
		hint = *pctx.LanguageHint
	}

	req := &transcribeRequest{
		Samples:      pctx.Audio.Samples,
		SampleRateHz: pctx.Audio.SampleRateHz,
		Language:     languageToWire(hint),
		SessionID:    pctx.SessionID,
	}
	resp := &transcribeResponse{}
	if err := invoke(callCtx, s.conn, asrTranscribeMethod, "asr", req, resp); err != nil {
		return err
	}

	transcript, err := transcriptFromWire(resp.Transcript)
	if err != nil {
		return err
	}

	pctx.Transcript = &transcript
	if resp.SessionID != "" {
		pctx.SessionID = resp.SessionID
	}
	pctx.AppendEvent(domain.FinalTranscriptEvent(transcript))
	return nil
}

// AlignmentEnrichStage is the remote-mode stage backing "alignment_enrich".
type AlignmentEnrichStage struct {
	conn           *grpc.ClientConn
	requestTimeout time.Duration
}

// NewAlignmentEnrichStage builds an AlignmentEnrichStage over conn.
func NewAlignmentEnrichStage(conn *grpc.ClientConn, requestTimeout time.Duration) *AlignmentEnrichStage {
	return &AlignmentEnrichStage{conn: conn, requestTimeout: requestTimeout}
}

func (s *AlignmentEnrichStage) Name() string { return "alignment_enrich" }

func (s *AlignmentEnrichStage) Execute(ctx context.Context, pctx *domain.PipelineContext) error {
	if pctx.Transcript == nil {
		return domainerr.InternalError("no transcript available")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	req := &enrichTranscriptRequest{
		Samples:      pctx.Audio.Samples,
		SampleRateHz: pctx.Audio.SampleRateHz,
		Transcript:   transcriptToWire(*pctx.Transcript),
		SessionID:    pctx.SessionID,
	}
	resp := &enrichTranscriptResponse{}
	if err := invoke(callCtx, s.conn, alignmentEnrichMethod, "alignment", req, resp); err != nil {
		return err
	}

	transcript, err := transcriptFromWire(resp.Transcript)
	if err != nil {
		return domainerr.InternalErrorf("alignment response: %v", err)
	}

	words := wordsFromWire(resp.AlignedWords)
	pctx.SessionID = resp.SessionID
	pctx.Transcript = &transcript
	pctx.AlignedWords = words
	pctx.AppendEvent(domain.AlignmentUpdateEvent(words))
	pctx.SetExtension("alignment.text", resp.Text)
	return nil
}

// invoke issues a unary gRPC call, mapping a context deadline into the
// specified "gRPC request timed out" ExternalService error and any other
// transport/status failure into "gRPC <code>: <message>".
func invoke(ctx context.Context, conn *grpc.ClientConn, method, service string, req, resp any) error {
	err := conn.Invoke(ctx, method, req, resp)
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domainerr.ExternalServiceError(service, "gRPC request timed out")
	}
	if st, ok := status.FromError(err); ok {
		return domainerr.ExternalServiceErrorf(service, "gRPC %s: %s", st.Code(), st.Message())
	}
	return domainerr.ExternalServiceErrorf(service, "gRPC call failed: %v", err)
}
