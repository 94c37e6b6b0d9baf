package session

import (
	"sync"
	"time"
)

// LatencySummary reports analysis latency for one session. Count == 0 means
// no frame was ever analyzed; MinMs/MaxMs/AvgMs are not computed in that
// case and must not be read as real measurements.
type LatencySummary struct {
	Count      int           `json:"count"`
	MinMs      float64       `json:"min_ms"`
	MaxMs      float64       `json:"max_ms"`
	AvgMs      float64       `json:"avg_ms"`
	SessionDur time.Duration `json:"session_duration"`
}

// HasData reports whether at least one analysis latency was recorded.
func (s LatencySummary) HasData() bool {
	return s.Count > 0
}

// LatencyRecorder accumulates per-analysis durations plus the session start
// and end instants. Appends come from the frame path; Summary may be called
// from the reporting API at any time.
type LatencyRecorder struct {
	mu           sync.RWMutex
	samples      []time.Duration
	sessionStart time.Time
	sessionEnd   time.Time

	now func() time.Time
}

// NewLatencyRecorder creates a recorder with the session start set to now.
func NewLatencyRecorder() *LatencyRecorder {
	return newLatencyRecorder(time.Now)
}

func newLatencyRecorder(now func() time.Time) *LatencyRecorder {
	return &LatencyRecorder{
		sessionStart: now(),
		now:          now,
	}
}

// Record appends one analysis duration. Zero is a valid sample.
func (r *LatencyRecorder) Record(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, d)
}

// MarkSessionEnd pins the session end to now. The first call wins; later
// calls are no-ops so the recorded instant never moves.
func (r *LatencyRecorder) MarkSessionEnd() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessionEnd.IsZero() {
		r.sessionEnd = r.now()
	}
}

// SessionStart returns the instant the recorder was constructed.
func (r *LatencyRecorder) SessionStart() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionStart
}

// SessionEnd returns the pinned end instant, or the zero time if the stream
// has not ended yet.
func (r *LatencyRecorder) SessionEnd() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessionEnd
}

// Summary computes the latency summary. If the end-of-stream event never
// fired, the session duration is measured up to now without pinning the end.
func (r *LatencyRecorder) Summary() LatencySummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	end := r.sessionEnd
	if end.IsZero() {
		end = r.now()
	}

	summary := LatencySummary{
		Count:      len(r.samples),
		SessionDur: end.Sub(r.sessionStart),
	}

	if len(r.samples) == 0 {
		return summary
	}

	min := r.samples[0]
	max := r.samples[0]
	var sum time.Duration
	for _, s := range r.samples {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
		sum += s
	}

	summary.MinMs = durationMs(min)
	summary.MaxMs = durationMs(max)
	summary.AvgMs = durationMs(sum) / float64(len(r.samples))

	return summary
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
