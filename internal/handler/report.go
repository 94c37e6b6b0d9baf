package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"edumood/internal/logger"
	"edumood/internal/service"
	"edumood/internal/session"
)

// latencyResponse is the wire form of a latency summary. When HasData is
// false the min/max/avg fields are absent rather than misleading zeros.
type latencyResponse struct {
	HasData            bool     `json:"has_data"`
	Count              int      `json:"count"`
	MinMs              *float64 `json:"min_ms,omitempty"`
	MaxMs              *float64 `json:"max_ms,omitempty"`
	AvgMs              *float64 `json:"avg_ms,omitempty"`
	SessionDurationSec float64  `json:"session_duration_seconds"`
}

func toLatencyResponse(summary session.LatencySummary) latencyResponse {
	resp := latencyResponse{
		HasData:            summary.HasData(),
		Count:              summary.Count,
		SessionDurationSec: summary.SessionDur.Seconds(),
	}
	if summary.HasData() {
		resp.MinMs = &summary.MinMs
		resp.MaxMs = &summary.MaxMs
		resp.AvgMs = &summary.AvgMs
	}
	return resp
}

// SessionTableHandler returns the current session's emotion ledger as an
// ordered table with the fixed 8-column schema.
func SessionTableHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := manager.Recognizer(r.URL.Query().Get("camera"))
		if !ok {
			http.Error(w, "No active session", http.StatusNotFound)
			return
		}

		writeJSON(w, logger, rec.Stats().AsTable())
	}
}

// SessionTotalsHandler returns per-category totals for the current session,
// sorted descending.
func SessionTotalsHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := manager.Recognizer(r.URL.Query().Get("camera"))
		if !ok {
			http.Error(w, "No active session", http.StatusNotFound)
			return
		}

		writeJSON(w, logger, rec.Stats().TotalByCategory())
	}
}

// SessionLatencyHandler returns the current session's latency summary.
func SessionLatencyHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := manager.Recognizer(r.URL.Query().Get("camera"))
		if !ok {
			http.Error(w, "No active session", http.StatusNotFound)
			return
		}

		writeJSON(w, logger, toLatencyResponse(rec.Latency().Summary()))
	}
}

// EndSessionHandler fires the end-of-stream hook for a camera's session and
// returns the final latency summary.
func EndSessionHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		camera := r.URL.Query().Get("camera")
		if camera == "" {
			cameras := manager.Cameras()
			if len(cameras) != 1 {
				http.Error(w, "camera parameter required", http.StatusBadRequest)
				return
			}
			camera = cameras[0]
		}

		summary, err := manager.EndSession(camera)
		if err != nil {
			logger.Error("Failed to end session for camera %s: %v", camera, err)
			if errors.Is(err, service.ErrNoSession) {
				http.Error(w, "No active session", http.StatusNotFound)
			} else {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, logger, toLatencyResponse(summary))
	}
}

// CamerasHandler lists cameras with an active session.
func CamerasHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, manager.Cameras())
	}
}

// ArchivedSessionsHandler lists archived sessions from the database,
// newest first.
func ArchivedSessionsHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), 50)

		sessions, err := manager.GetSessionRepository().GetAll(limit)
		if err != nil {
			logger.Error("Error querying archived sessions: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, sessions)
	}
}

// ArchivedRecordsHandler returns the emotion ledger of one archived session.
func ArchivedRecordsHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			http.Error(w, "id parameter required", http.StatusBadRequest)
			return
		}

		archived, err := manager.GetSessionRepository().GetByID(id)
		if err != nil {
			logger.Error("Error querying session %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if archived == nil {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}

		records, err := manager.GetSessionRepository().GetRecords(id)
		if err != nil {
			logger.Error("Error querying records for session %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, records)
	}
}

// writeJSON encodes a JSON response with the standard header.
func writeJSON(w http.ResponseWriter, logger *logger.Logger, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// atoiDefault parses a positive integer, falling back to def.
func atoiDefault(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}
