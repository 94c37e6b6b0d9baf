// Package recognizer implements the per-frame emotion recognition path:
// the sampling decision, the gocv analysis pipeline, and the composition
// root driven once per frame by the transport layer.
package recognizer

import "fmt"

// Decision is the outcome of one sampling step.
type Decision int

const (
	// Analyze runs the full detection and classification pass.
	Analyze Decision = iota
	// ReuseCache emits the most recent annotated frame.
	ReuseCache
	// PassThroughRaw emits the incoming frame; no analysis has succeeded yet.
	PassThroughRaw
)

func (d Decision) String() string {
	switch d {
	case Analyze:
		return "analyze"
	case ReuseCache:
		return "reuse-cache"
	default:
		return "pass-through"
	}
}

// Sampler decides per incoming frame whether to run a full analysis or fall
// back to the cached result. It owns the monotonically increasing frame
// counter and the single-slot cache of the last annotated frame.
//
// Single caller only: the transport invokes one frame at a time, so the
// sampler carries no lock.
type Sampler struct {
	every      int
	frameCount int

	cached   []byte
	cachedAt int
}

// NewSampler creates a sampler that analyzes once per every frames.
func NewSampler(every int) (*Sampler, error) {
	if every < 1 {
		return nil, fmt.Errorf("sampling interval must be a positive integer, got %d", every)
	}
	return &Sampler{every: every}, nil
}

// Decide consumes one frame tick and returns the decision for it. The
// counter advances on every call and is never reset.
func (s *Sampler) Decide() Decision {
	s.frameCount++

	if s.frameCount%s.every == 0 {
		return Analyze
	}
	if s.cached != nil {
		return ReuseCache
	}
	return PassThroughRaw
}

// StoreResult overwrites the cache with the latest annotated frame.
func (s *Sampler) StoreResult(frame []byte) {
	s.cached = frame
	s.cachedAt = s.frameCount
}

// Cached returns the last annotated frame, or nil before the first
// successful analysis.
func (s *Sampler) Cached() []byte {
	return s.cached
}

// FrameCount returns how many frames have been seen so far.
func (s *Sampler) FrameCount() int {
	return s.frameCount
}

// CachedAt returns the frame index at which the cache was produced.
func (s *Sampler) CachedAt() int {
	return s.cachedAt
}
