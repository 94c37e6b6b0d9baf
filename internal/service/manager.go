// Package service coordinates active classroom sessions: one Recognizer per
// camera, frame fan-out to viewers, and archival when a session ends.
package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"edumood/internal/config"
	"edumood/internal/logger"
	"edumood/internal/model"
	"edumood/internal/recognizer"
	"edumood/internal/repository"
	"edumood/internal/service/websocket"
	"edumood/internal/session"
)

// ErrNoSession is returned when an operation names a camera that has no
// active session.
var ErrNoSession = errors.New("no active session")

// activeSession pairs a camera's Recognizer with its archival state.
type activeSession struct {
	camera   string
	rec      *recognizer.Recognizer
	ended    bool
	archived bool
}

// Manager owns the active sessions. Frames arrive from the camera transport
// (one goroutine per listener, serial per camera); the reporting API reads
// concurrently, so the session map is lock-protected.
type Manager struct {
	cfg         *config.Config
	logger      *logger.Logger
	hub         *websocket.HubService
	analyzer    recognizer.Analyzer
	sessionRepo repository.SessionRepository

	mu       sync.RWMutex
	sessions map[string]*activeSession
}

// NewManager wires the session manager.
func NewManager(cfg *config.Config, analyzer recognizer.Analyzer, hub *websocket.HubService,
	sessionRepo repository.SessionRepository, logger *logger.Logger) *Manager {
	manager := &Manager{
		cfg:         cfg,
		logger:      logger,
		hub:         hub,
		analyzer:    analyzer,
		sessionRepo: sessionRepo,
		sessions:    make(map[string]*activeSession),
	}

	manager.logger.Info("Session manager started - analyzing every %d frame(s)", cfg.AnalyzeEveryN)
	return manager
}

// HandleCameraFrame processes one incoming frame for a camera's session and
// broadcasts the result to viewers. The frame is always emitted, even when
// processing fails internally. Frames arriving after the session has ended
// are passed through untouched.
func (m *Manager) HandleCameraFrame(frame []byte, camera string) {
	sess := m.session(camera)

	m.mu.RLock()
	ended := sess != nil && sess.ended
	m.mu.RUnlock()

	out := frame
	if sess != nil && !ended {
		out = sess.rec.OnFrame(frame)
	}

	m.broadcastFrame(out, camera)
}

// session returns the camera's active session, creating it on first use.
func (m *Manager) session(camera string) *activeSession {
	m.mu.RLock()
	sess, exists := m.sessions[camera]
	m.mu.RUnlock()

	if exists {
		return sess
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, exists := m.sessions[camera]; exists {
		return sess
	}

	rec, err := recognizer.New(m.cfg.AnalyzeEveryN, m.analyzer,
		session.NewStats(), session.NewLatencyRecorder(), m.logger)
	if err != nil {
		// Interval is validated at startup; reaching this means broken wiring.
		m.logger.Error("Failed to create recognizer for camera %s: %v", camera, err)
		return nil
	}

	sess = &activeSession{camera: camera, rec: rec}
	m.sessions[camera] = sess
	m.logger.Info("Session started for camera: %s", camera)

	return sess
}

// frameEnvelope is the broadcast message viewers receive.
type frameEnvelope struct {
	Camera string `json:"camera"`
	Image  string `json:"image"`
}

// broadcastFrame sends a frame to viewers in the base64 JSON envelope.
func (m *Manager) broadcastFrame(frame []byte, camera string) {
	msg, err := encodeFrameEnvelope(frame, camera)
	if err != nil {
		m.logger.Error("Failed to encode frame envelope for camera %s: %v", camera, err)
		return
	}
	m.hub.Broadcast(msg)
}

func encodeFrameEnvelope(frame []byte, camera string) ([]byte, error) {
	return json.Marshal(frameEnvelope{
		Camera: camera,
		Image:  base64.StdEncoding.EncodeToString(frame),
	})
}

// EndSession fires the end-of-stream hook for a camera: pins the session
// end, logs the latency summary and archives the ledger. Calling it again
// is harmless; the archive is written once. The session stays queryable.
func (m *Manager) EndSession(camera string) (session.LatencySummary, error) {
	m.mu.Lock()
	sess, exists := m.sessions[camera]
	if exists {
		sess.ended = true
	}
	m.mu.Unlock()

	if !exists {
		return session.LatencySummary{}, fmt.Errorf("%w for camera %s", ErrNoSession, camera)
	}

	summary := sess.rec.EndOfStream()
	m.logSummary(camera, summary)

	if err := m.archive(sess, summary); err != nil {
		m.logger.Error("Failed to archive session %s: %v", camera, err)
		return summary, err
	}

	return summary, nil
}

// archive writes the session and its ledger to the database once.
func (m *Manager) archive(sess *activeSession, summary session.LatencySummary) error {
	m.mu.Lock()
	if sess.archived {
		m.mu.Unlock()
		return nil
	}
	sess.archived = true
	m.mu.Unlock()

	err := m.writeArchive(sess, summary)
	if err != nil {
		// Let a later EndSession retry the write.
		m.mu.Lock()
		sess.archived = false
		m.mu.Unlock()
	}
	return err
}

func (m *Manager) writeArchive(sess *activeSession, summary session.LatencySummary) error {
	latency := sess.rec.Latency()
	id, err := m.sessionRepo.Insert(&model.Session{
		Camera:         sess.camera,
		StartedAt:      latency.SessionStart(),
		EndedAt:        latency.SessionEnd(),
		AnalyzedFrames: summary.Count,
		MinLatencyMs:   summary.MinMs,
		MaxLatencyMs:   summary.MaxMs,
		AvgLatencyMs:   summary.AvgMs,
	})
	if err != nil {
		return err
	}

	return m.sessionRepo.InsertRecords(id, sess.rec.Stats().Records())
}

// logSummary writes the latency summary block at stream end.
func (m *Manager) logSummary(camera string, summary session.LatencySummary) {
	if !summary.HasData() {
		m.logger.Info("No latency data collected for session %s.", camera)
		return
	}

	m.logger.Info("================ LATENCY SUMMARY ================")
	m.logger.Info("Session: %s", camera)
	m.logger.Info("Total analyzed frames: %d", summary.Count)
	m.logger.Info("Average latency: %.1f ms", summary.AvgMs)
	m.logger.Info("Minimum latency: %.1f ms", summary.MinMs)
	m.logger.Info("Maximum latency: %.1f ms", summary.MaxMs)
	m.logger.Info("Session duration: %.1f seconds (~%.1f minutes)",
		summary.SessionDur.Seconds(), summary.SessionDur.Minutes())
	m.logger.Info("=================================================")
}

// Recognizer returns the Recognizer for a camera. With an empty camera name
// and exactly one active session, that session is returned.
func (m *Manager) Recognizer(camera string) (*recognizer.Recognizer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if camera == "" && len(m.sessions) == 1 {
		for _, sess := range m.sessions {
			return sess.rec, true
		}
	}

	sess, exists := m.sessions[camera]
	if !exists {
		return nil, false
	}
	return sess.rec, true
}

// Cameras lists the cameras with an active session.
func (m *Manager) Cameras() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cameras := make([]string, 0, len(m.sessions))
	for camera := range m.sessions {
		cameras = append(cameras, camera)
	}
	return cameras
}

// GetWebsocketService exposes the viewer hub for the handlers.
func (m *Manager) GetWebsocketService() *websocket.HubService {
	return m.hub
}

// GetSessionRepository exposes the archive for the handlers.
func (m *Manager) GetSessionRepository() repository.SessionRepository {
	return m.sessionRepo
}
