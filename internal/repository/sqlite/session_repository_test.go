package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"edumood/internal/emotion"
	"edumood/internal/model"
	"edumood/internal/session"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "session_repo_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSessionRepository_InsertAndGet(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	started := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	id, err := repo.Insert(&model.Session{
		Camera:         "classroom-a",
		StartedAt:      started,
		EndedAt:        started.Add(45 * time.Minute),
		AnalyzedFrames: 120,
		MinLatencyMs:   10,
		MaxLatencyMs:   95,
		AvgLatencyMs:   40,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing session")
	}
	if got.Camera != "classroom-a" || got.AnalyzedFrames != 120 || got.AvgLatencyMs != 40 {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestSessionRepository_GetByIDMissing(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	got, err := repo.GetByID(12345)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing session, got %+v", got)
	}
}

func TestSessionRepository_RecordsRoundTrip(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	id, err := repo.Insert(&model.Session{
		Camera:    "classroom-b",
		StartedAt: time.Now(),
		EndedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	base := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	first := emotion.Normalize([]string{"happy", "happy"})
	second := emotion.Normalize([]string{"sad", "fearful"})

	err = repo.InsertRecords(id, []session.Record{
		session.NewRecord(base, first),
		session.NewRecord(base.Add(5*time.Second), second),
	})
	if err != nil {
		t.Fatalf("InsertRecords: %v", err)
	}

	rows, err := repo.GetRecords(id)
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, expected 2", len(rows))
	}

	if rows[0].Happy != 2 {
		t.Errorf("rows[0].Happy = %d, expected 2", rows[0].Happy)
	}
	if rows[1].Sad != 1 || rows[1].Fearful != 1 {
		t.Errorf("rows[1] = %+v", rows[1])
	}
	if rows[0].RecordedAt != "2025-03-14 10:00:00" {
		t.Errorf("rows[0].RecordedAt = %q", rows[0].RecordedAt)
	}
}

func TestSessionRepository_GetAllNewestFirst(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	base := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Insert(&model.Session{
			Camera:    "classroom-a",
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
		})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	sessions, err := repo.GetAll(0)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("sessions = %d, expected 3", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].StartedAt.After(sessions[i-1].StartedAt) {
			t.Errorf("sessions not ordered newest first: %v before %v", sessions[i-1].StartedAt, sessions[i].StartedAt)
		}
	}

	limited, err := repo.GetAll(2)
	if err != nil {
		t.Fatalf("GetAll limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited sessions = %d, expected 2", len(limited))
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	id, err := repo.Insert(&model.Session{Camera: "x", StartedAt: time.Now(), EndedAt: time.Now()})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := repo.InsertRecords(id, []session.Record{
		session.NewRecord(time.Now(), emotion.Normalize([]string{"happy"})),
	}); err != nil {
		t.Fatalf("InsertRecords: %v", err)
	}

	if err := repo.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Error("session still present after delete")
	}

	rows, err := repo.GetRecords(id)
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("records still present after delete: %d", len(rows))
	}
}
