package recognizer

import (
	"time"

	"edumood/internal/emotion"
	"edumood/internal/logger"
	"edumood/internal/session"
)

// Analyzer is the per-frame analysis capability the Recognizer drives. The
// production implementation is Pipeline; tests substitute fakes.
type Analyzer interface {
	// Mirror flips a frame without analyzing it.
	Mirror(frame []byte) ([]byte, error)
	// Analyze returns the annotated frame and its per-category counts.
	Analyze(frame []byte) ([]byte, emotion.Counts, error)
}

// Recognizer is the single entry point invoked once per frame by the
// transport layer. It samples frames, reuses the cached annotation between
// analyses, and feeds the session ledgers.
//
// One Recognizer exists per session and is driven by exactly one caller at a
// time; calls may block for as long as an analysis takes.
type Recognizer struct {
	sampler  *Sampler
	analyzer Analyzer
	stats    *session.Stats
	latency  *session.LatencyRecorder
	logger   *logger.Logger

	now func() time.Time
}

// New creates a Recognizer analyzing once per analyzeEveryN frames.
func New(analyzeEveryN int, analyzer Analyzer, stats *session.Stats, latency *session.LatencyRecorder, logger *logger.Logger) (*Recognizer, error) {
	sampler, err := NewSampler(analyzeEveryN)
	if err != nil {
		return nil, err
	}

	return &Recognizer{
		sampler:  sampler,
		analyzer: analyzer,
		stats:    stats,
		latency:  latency,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// OnFrame processes one incoming frame and returns the frame to emit. The
// media path never drops a frame: if anything fails, the raw frame comes
// back unchanged and the failure is logged.
func (r *Recognizer) OnFrame(frame []byte) []byte {
	switch r.sampler.Decide() {
	case ReuseCache:
		return r.sampler.Cached()

	case PassThroughRaw:
		mirrored, err := r.analyzer.Mirror(frame)
		if err != nil {
			r.logger.Error("Failed to mirror frame %d: %v", r.sampler.FrameCount(), err)
			return frame
		}
		return mirrored

	default:
		return r.analyzeFrame(frame)
	}
}

// analyzeFrame runs the full pass, records its latency, caches the result
// and appends a ledger record when any face was classified.
func (r *Recognizer) analyzeFrame(frame []byte) []byte {
	start := r.now()
	annotated, counts, err := r.analyzer.Analyze(frame)
	elapsed := r.now().Sub(start)

	if err != nil {
		r.logger.Error("Frame analysis failed at frame %d: %v", r.sampler.FrameCount(), err)
		return frame
	}

	r.latency.Record(elapsed)
	r.logger.Info("Frame %d analyzed in %.1f ms", r.sampler.FrameCount(), float64(elapsed)/float64(time.Millisecond))

	r.sampler.StoreResult(annotated)

	if counts.Total() > 0 {
		r.stats.Append(session.NewRecord(r.now(), counts))
	}

	return annotated
}

// EndOfStream marks the session end (first call wins) and returns the
// latency summary. The Recognizer stays queryable afterwards.
func (r *Recognizer) EndOfStream() session.LatencySummary {
	r.latency.MarkSessionEnd()
	return r.latency.Summary()
}

// Stats exposes the session ledger for the reporting layer.
func (r *Recognizer) Stats() *session.Stats {
	return r.stats
}

// Latency exposes the latency recorder for the reporting layer.
func (r *Recognizer) Latency() *session.LatencyRecorder {
	return r.latency
}
