// Package emotion defines the fixed emotion schema and the vocabulary
// that folds raw classifier labels into it.
package emotion

import "strings"

// Category is one of the seven emotions tracked per session.
type Category string

const (
	Happy     Category = "happy"
	Sad       Category = "sad"
	Angry     Category = "angry"
	Surprise  Category = "surprise"
	Neutral   Category = "neutral"
	Disgusted Category = "disgusted"
	Fearful   Category = "fearful"
)

// Categories lists all seven categories in declaration order. This order is
// stable: the session table columns and total tie-breaking both depend on it.
var Categories = []Category{Happy, Sad, Angry, Surprise, Neutral, Disgusted, Fearful}

// synonyms maps lowercase raw classifier labels onto categories. The upstream
// classifier vocabulary differs per model, so near-miss labels are folded in
// rather than rejected.
var synonyms = map[string]Category{
	"happy":     Happy,
	"sad":       Sad,
	"angry":     Angry,
	"surprise":  Surprise,
	"surprised": Surprise,
	"neutral":   Neutral,
	"disgust":   Disgusted,
	"disgusted": Disgusted,
	"fear":      Fearful,
	"fearful":   Fearful,
}

// Counts holds the number of faces observed per category. A Counts built by
// this package always carries all seven keys.
type Counts map[Category]int

// Normalize folds raw labels into per-category counts. Matching is
// case-insensitive; labels outside the synonym table are dropped, since the
// classifier is untrusted and an unknown label must not poison a frame.
func Normalize(labels []string) Counts {
	counts := make(Counts, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}

	for _, label := range labels {
		if c, ok := synonyms[strings.ToLower(strings.TrimSpace(label))]; ok {
			counts[c]++
		}
	}

	return counts
}

// Total returns the sum over all categories.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Clone returns an independent copy with all seven keys present.
func (c Counts) Clone() Counts {
	out := make(Counts, len(Categories))
	for _, cat := range Categories {
		out[cat] = c[cat]
	}
	return out
}
