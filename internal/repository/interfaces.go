package repository

import (
	"edumood/internal/model"
	"edumood/internal/session"
)

// SessionRepository defines the interface for the durable session archive.
type SessionRepository interface {
	// Create operations
	Insert(s *model.Session) (int64, error)
	InsertRecords(sessionID int64, records []session.Record) error

	// Read operations
	GetByID(id int64) (*model.Session, error)
	GetAll(limit int) ([]model.Session, error)
	GetRecords(sessionID int64) ([]session.Row, error)

	// Delete operations
	Delete(id int64) error
}
