// Package stage defines the uniform contract every pipeline step
// implements, plus the Loader interface used to resolve a
// PipelineStepSpec to a live Stage instance.
package stage

import (
	"context"

	"github.com/Djoe-Denne/vocal-agent/internal/domain"
)

// Stage is a named unit that mutates a PipelineContext. Implementations
// must be deterministic given an identical input context and configuration
// (modulo the underlying model's own non-determinism), must never retain a
// reference to the context beyond Execute, and must never communicate with
// other stages except through the context they are handed.
type Stage interface {
	// Name is a stable identifier used in logs, tests and loader lookups.
	Name() string
	// Execute mutates pctx in place. A returned error must be a
	// *domainerr.DomainError of kind InvalidInput, Internal or
	// ExternalService.
	Execute(ctx context.Context, pctx *domain.PipelineContext) error
}

// Loader resolves a PipelineStepSpec to a Stage instance. The built-in
// plugin loader and the remote RPC loader both implement this contract.
type Loader interface {
	LoadStep(spec domain.PipelineStepSpec) (Stage, error)
}
