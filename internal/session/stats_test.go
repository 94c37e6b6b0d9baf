package session

import (
	"testing"
	"time"

	"edumood/internal/emotion"
)

func countsOf(pairs map[emotion.Category]int) emotion.Counts {
	counts := emotion.Normalize(nil)
	for c, n := range pairs {
		counts[c] = n
	}
	return counts
}

func TestStats_EmptyTableKeepsSchema(t *testing.T) {
	stats := NewStats()
	table := stats.AsTable()

	expectedColumns := []string{
		"recorded_at", "happy", "sad", "angry", "surprise", "neutral", "disgusted", "fearful",
	}

	if len(table.Rows) != 0 {
		t.Errorf("rows = %d, expected 0", len(table.Rows))
	}
	if len(table.Columns) != len(expectedColumns) {
		t.Fatalf("columns = %d, expected %d", len(table.Columns), len(expectedColumns))
	}
	for i, col := range expectedColumns {
		if table.Columns[i] != col {
			t.Errorf("column[%d] = %q, expected %q", i, table.Columns[i], col)
		}
	}
}

func TestStats_AppendPreservesInsertionOrder(t *testing.T) {
	stats := NewStats()
	base := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	stats.Append(NewRecord(base, countsOf(map[emotion.Category]int{emotion.Happy: 2})))
	stats.Append(NewRecord(base.Add(5*time.Second), countsOf(map[emotion.Category]int{emotion.Sad: 1})))
	stats.Append(NewRecord(base.Add(10*time.Second), countsOf(map[emotion.Category]int{emotion.Neutral: 3})))

	table := stats.AsTable()
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, expected 3", len(table.Rows))
	}

	if table.Rows[0].RecordedAt != "2025-03-14 10:00:00" {
		t.Errorf("row[0].RecordedAt = %q", table.Rows[0].RecordedAt)
	}
	if table.Rows[0].Happy != 2 || table.Rows[1].Sad != 1 || table.Rows[2].Neutral != 3 {
		t.Errorf("rows out of order: %+v", table.Rows)
	}
}

func TestStats_TimestampSecondResolution(t *testing.T) {
	at := time.Date(2025, 3, 14, 10, 0, 0, 987654321, time.UTC)
	record := NewRecord(at, countsOf(nil))

	if record.RecordedAt.Nanosecond() != 0 {
		t.Errorf("RecordedAt not truncated to seconds: %v", record.RecordedAt)
	}
}

func TestStats_TotalByCategoryTieKeepsDeclarationOrder(t *testing.T) {
	stats := NewStats()
	now := time.Now()

	stats.Append(NewRecord(now, countsOf(map[emotion.Category]int{emotion.Happy: 3})))
	stats.Append(NewRecord(now, countsOf(map[emotion.Category]int{emotion.Happy: 2, emotion.Sad: 5})))

	totals := stats.TotalByCategory()
	if len(totals) != 7 {
		t.Fatalf("totals = %d, expected 7", len(totals))
	}

	// happy and sad both total 5; happy is declared first so it stays first.
	if totals[0].Category != emotion.Happy || totals[0].Total != 5 {
		t.Errorf("totals[0] = %+v, expected happy:5", totals[0])
	}
	if totals[1].Category != emotion.Sad || totals[1].Total != 5 {
		t.Errorf("totals[1] = %+v, expected sad:5", totals[1])
	}
	for _, ct := range totals[2:] {
		if ct.Total != 0 {
			t.Errorf("%s total = %d, expected 0", ct.Category, ct.Total)
		}
	}
}

func TestStats_TotalByCategorySortsDescending(t *testing.T) {
	stats := NewStats()
	now := time.Now()

	stats.Append(NewRecord(now, countsOf(map[emotion.Category]int{
		emotion.Neutral: 7, emotion.Fearful: 2, emotion.Angry: 4,
	})))

	totals := stats.TotalByCategory()
	if totals[0].Category != emotion.Neutral {
		t.Errorf("totals[0] = %+v, expected neutral", totals[0])
	}
	for i := 1; i < len(totals); i++ {
		if totals[i].Total > totals[i-1].Total {
			t.Errorf("totals not descending at %d: %+v", i, totals)
		}
	}
}

func TestStats_RecordIsIndependentCopy(t *testing.T) {
	stats := NewStats()
	counts := countsOf(map[emotion.Category]int{emotion.Happy: 1})

	stats.Append(NewRecord(time.Now(), counts))
	counts[emotion.Happy] = 99

	if got := stats.Records()[0].Counts[emotion.Happy]; got != 1 {
		t.Errorf("ledger record mutated through caller's map: happy = %d", got)
	}
}
