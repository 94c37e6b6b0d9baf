package sqlite

import (
	"database/sql"
	"fmt"

	"edumood/internal/emotion"
	"edumood/internal/model"
	"edumood/internal/session"
)

// SessionRepository implements repository.SessionRepository for SQLite.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert adds a new session record to the database.
func (r *SessionRepository) Insert(s *model.Session) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO sessions (camera, started_at, ended_at, analyzed_frames, min_latency_ms, max_latency_ms, avg_latency_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.Camera, s.StartedAt, s.EndedAt, s.AnalyzedFrames, s.MinLatencyMs, s.MaxLatencyMs, s.AvgLatencyMs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}

	return result.LastInsertId()
}

// InsertRecords adds a session's emotion ledger in a single transaction,
// preserving insertion order.
func (r *SessionRepository) InsertRecords(sessionID int64, records []session.Record) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO emotion_records (session_id, recorded_at, happy, sad, angry, surprise, neutral, disgusted, fearful)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(
			sessionID,
			rec.RecordedAt,
			rec.Counts[emotion.Happy],
			rec.Counts[emotion.Sad],
			rec.Counts[emotion.Angry],
			rec.Counts[emotion.Surprise],
			rec.Counts[emotion.Neutral],
			rec.Counts[emotion.Disgusted],
			rec.Counts[emotion.Fearful],
		)
		if err != nil {
			return fmt.Errorf("failed to insert emotion record: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves one session, or nil when it does not exist.
func (r *SessionRepository) GetByID(id int64) (*model.Session, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var s model.Session
	err := r.db.Conn().QueryRow(`
		SELECT id, camera, started_at, ended_at, analyzed_frames, min_latency_ms, max_latency_ms, avg_latency_ms
		FROM sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.Camera, &s.StartedAt, &s.EndedAt, &s.AnalyzedFrames, &s.MinLatencyMs, &s.MaxLatencyMs, &s.AvgLatencyMs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &s, nil
}

// GetAll retrieves archived sessions, newest first.
func (r *SessionRepository) GetAll(limit int) ([]model.Session, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `
		SELECT id, camera, started_at, ended_at, analyzed_frames, min_latency_ms, max_latency_ms, avg_latency_ms
		FROM sessions ORDER BY started_at DESC
	`
	args := []interface{}{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Camera, &s.StartedAt, &s.EndedAt, &s.AnalyzedFrames, &s.MinLatencyMs, &s.MaxLatencyMs, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// GetRecords retrieves a session's emotion ledger in insertion order.
func (r *SessionRepository) GetRecords(sessionID int64) ([]session.Row, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT recorded_at, happy, sad, angry, surprise, neutral, disgusted, fearful
		FROM emotion_records WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion records: %w", err)
	}
	defer rows.Close()

	var records []session.Row
	for rows.Next() {
		var row session.Row
		var recordedAt sql.NullTime
		if err := rows.Scan(&recordedAt, &row.Happy, &row.Sad, &row.Angry, &row.Surprise, &row.Neutral, &row.Disgusted, &row.Fearful); err != nil {
			return nil, fmt.Errorf("failed to scan emotion record: %w", err)
		}
		if recordedAt.Valid {
			row.RecordedAt = recordedAt.Time.Format(session.TimeFormat)
		}
		records = append(records, row)
	}

	return records, nil
}

// Delete removes a session and its ledger.
func (r *SessionRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM emotion_records WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete emotion records: %w", err)
	}

	_, err := r.db.Conn().Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}
