package domain

import "sync"

// DefaultSampleRateHz is the sample rate a freshly constructed
// PipelineContext assumes before any audio is attached, mirroring the
// original domain model's 16 kHz default.
const DefaultSampleRateHz = 16000

// PipelineContext is the per-session mutable aggregate passed by pointer
// through every stage in a run. It has a single owner (the use-case or the
// streaming driver for its connection); stages never retain a reference to
// it beyond their Execute call, and no two stages touch it concurrently.
type PipelineContext struct {
	SessionID    string
	LanguageHint *LanguageTag
	Audio        AudioChunk
	Transcript   *Transcript
	AlignedWords []WordTiming
	Events       []DomainEvent
	Extensions   map[string]any

	mu sync.Mutex
}

// NewPipelineContext builds a context with empty 16 kHz audio and no
// language hint, the defaults used by both the one-shot use-case and the
// streaming driver's Start handler before samples/hint are attached.
func NewPipelineContext(sessionID string) *PipelineContext {
	return &PipelineContext{
		SessionID:  sessionID,
		Audio:      AudioChunk{SampleRateHz: DefaultSampleRateHz},
		Extensions: make(map[string]any),
	}
}

// SetExtension stores a namespaced side-channel value, e.g. "audio.resampled".
func (c *PipelineContext) SetExtension(key string, value any) {
	c.Extensions[key] = value
}

// Extension reads a side-channel value.
func (c *PipelineContext) Extension(key string) (any, bool) {
	v, ok := c.Extensions[key]
	return v, ok
}

// TakeExtension reads and removes a side-channel value.
func (c *PipelineContext) TakeExtension(key string) (any, bool) {
	v, ok := c.Extensions[key]
	if ok {
		delete(c.Extensions, key)
	}
	return v, ok
}

// AppendEvent appends a DomainEvent produced by the currently-executing
// stage. Appends and DrainEvents share a mutex, so events may be appended
// and drained from different goroutines; the streaming driver itself runs
// the engine and drains on the same goroutine, and stage execution is
// always single-threaded per context.
func (c *PipelineContext) AppendEvent(event DomainEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, event)
}

// DrainEvents takes ownership of the accumulated events, leaving the
// context's event log empty. This backs the streaming driver's
// drain-on-flush invariant: a Flush or Stop drains exactly the events
// produced by that run.
func (c *PipelineContext) DrainEvents() []DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	drained := c.Events
	c.Events = nil
	return drained
}
