// Package pipeline implements the sequential stage executor and the two
// stage-catalog loaders (built-in plugin, remote RPC) described by the
// pipeline core.
package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
	"github.com/Djoe-Denne/vocal-agent/internal/logging"
	"github.com/Djoe-Denne/vocal-agent/internal/metrics"
	"github.com/Djoe-Denne/vocal-agent/internal/pipeline/stage"
)

var tracer = otel.Tracer("vocalagent/pipeline")

// Engine is a sequential executor over a resolved, ordered list of stages.
// It holds no per-session state; the same Engine instance is reused across
// many sessions, each with its own PipelineContext.
type Engine struct {
	stages []stage.Stage
}

// FromDefinition concatenates def.Pre, def.Transcription and def.Post into
// one ordered sequence and resolves each step via loader. The first
// resolution failure aborts construction.
func FromDefinition(def domain.PipelineDefinition, loader stage.Loader) (*Engine, error) {
	specs := def.OrderedSteps()
	stages := make([]stage.Stage, 0, len(specs))
	for _, spec := range specs {
		resolved, err := loader.LoadStep(spec)
		if err != nil {
			return nil, err
		}
		stages = append(stages, resolved)
	}
	return &Engine{stages: stages}, nil
}

// Run executes every stage strictly in order, awaiting each to completion
// before starting the next, and returns the first error verbatim. It never
// clones pctx between stages; every stage receives the same pointer.
func (e *Engine) Run(ctx context.Context, pctx *domain.PipelineContext) error {
	for _, s := range e.stages {
		logging.DebugContext(ctx, "executing stage", "stage", s.Name(), "session_id", pctx.SessionID)

		spanCtx, span := tracer.Start(ctx, "pipeline.stage."+s.Name())
		started := time.Now()
		err := s.Execute(spanCtx, pctx)
		metrics.ObserveStage(s.Name(), time.Since(started))
		span.End()

		if err != nil {
			metrics.RecordFailure(s.Name())
			return err
		}
	}
	return nil
}
