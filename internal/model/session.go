package model

import "time"

// Session is one archived classroom session: the session window plus the
// latency summary captured when the stream ended.
type Session struct {
	ID             int64     `json:"id"`
	Camera         string    `json:"camera"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	AnalyzedFrames int       `json:"analyzed_frames"`
	MinLatencyMs   float64   `json:"min_latency_ms"`
	MaxLatencyMs   float64   `json:"max_latency_ms"`
	AvgLatencyMs   float64   `json:"avg_latency_ms"`
}
