// Package session holds the per-session ledgers: the emotion statistics
// store the dashboard pulls from and the latency recorder.
package session

import (
	"sort"
	"sync"
	"time"

	"edumood/internal/emotion"
)

// TimeFormat is the second-resolution wall clock format used for the
// recorded_at column.
const TimeFormat = "2006-01-02 15:04:05"

// Record is one ledger entry: a timestamp plus the number of faces seen per
// emotion on one analyzed frame. Records are never mutated after append.
type Record struct {
	RecordedAt time.Time
	Counts     emotion.Counts
}

// NewRecord builds a Record with the timestamp truncated to whole seconds and
// a defensive copy of the counts.
func NewRecord(at time.Time, counts emotion.Counts) Record {
	return Record{
		RecordedAt: at.Truncate(time.Second),
		Counts:     counts.Clone(),
	}
}

// Row is one table row in the reporting schema.
type Row struct {
	RecordedAt string `json:"recorded_at"`
	Happy      int    `json:"happy"`
	Sad        int    `json:"sad"`
	Angry      int    `json:"angry"`
	Surprise   int    `json:"surprise"`
	Neutral    int    `json:"neutral"`
	Disgusted  int    `json:"disgusted"`
	Fearful    int    `json:"fearful"`
}

// Table is the ordered tabular view of a session ledger. Columns is always
// the full 8-column schema, even with zero rows, because the reporting layer
// keys off column presence.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// CategoryTotal pairs a category with its session-wide total.
type CategoryTotal struct {
	Category emotion.Category `json:"category"`
	Total    int              `json:"total"`
}

// Stats is the append-only emotion ledger for one session. Appends come from
// the frame path; reads come from the reporting API at any time, hence the
// lock.
type Stats struct {
	mu      sync.RWMutex
	records []Record
}

// NewStats creates an empty session ledger.
func NewStats() *Stats {
	return &Stats{}
}

// Append adds a record to the ledger, preserving insertion order.
func (s *Stats) Append(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

// Len returns the number of records appended so far.
func (s *Stats) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns a copy of the ledger in insertion order.
func (s *Stats) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// columns returns the declared column order.
func columns() []string {
	cols := make([]string, 0, len(emotion.Categories)+1)
	cols = append(cols, "recorded_at")
	for _, c := range emotion.Categories {
		cols = append(cols, string(c))
	}
	return cols
}

// AsTable exports the ledger as ordered rows with the fixed 8-column schema.
func (s *Stats) AsTable() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table := Table{
		Columns: columns(),
		Rows:    make([]Row, 0, len(s.records)),
	}

	for _, r := range s.records {
		table.Rows = append(table.Rows, Row{
			RecordedAt: r.RecordedAt.Format(TimeFormat),
			Happy:      r.Counts[emotion.Happy],
			Sad:        r.Counts[emotion.Sad],
			Angry:      r.Counts[emotion.Angry],
			Surprise:   r.Counts[emotion.Surprise],
			Neutral:    r.Counts[emotion.Neutral],
			Disgusted:  r.Counts[emotion.Disgusted],
			Fearful:    r.Counts[emotion.Fearful],
		})
	}

	return table
}

// TotalByCategory sums the ledger per category, sorted descending by total.
// Ties keep declaration order (happy, sad, angry, surprise, neutral,
// disgusted, fearful).
func (s *Stats) TotalByCategory() []CategoryTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make([]CategoryTotal, 0, len(emotion.Categories))
	for _, c := range emotion.Categories {
		total := 0
		for _, r := range s.records {
			total += r.Counts[c]
		}
		totals = append(totals, CategoryTotal{Category: c, Total: total})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	return totals
}
