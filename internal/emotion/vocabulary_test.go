package emotion

import "testing"

func TestNormalize_SynonymFolding(t *testing.T) {
	counts := Normalize([]string{"surprised", "fear", "happy"})

	expected := Counts{
		Happy:     1,
		Sad:       0,
		Angry:     0,
		Surprise:  1,
		Neutral:   0,
		Disgusted: 0,
		Fearful:   1,
	}

	for _, c := range Categories {
		if counts[c] != expected[c] {
			t.Errorf("Normalize: %s = %d, expected %d", c, counts[c], expected[c])
		}
	}
}

func TestNormalize_CaseInsensitive(t *testing.T) {
	tests := []struct {
		label    string
		category Category
	}{
		{"HAPPY", Happy},
		{"Disgust", Disgusted},
		{" neutral ", Neutral},
		{"Surprised", Surprise},
		{"FEARFUL", Fearful},
	}

	for _, tt := range tests {
		counts := Normalize([]string{tt.label})
		if counts[tt.category] != 1 {
			t.Errorf("Normalize(%q): %s = %d, expected 1", tt.label, tt.category, counts[tt.category])
		}
	}
}

func TestNormalize_UnknownLabelsDropped(t *testing.T) {
	counts := Normalize([]string{"confused", "", "meh", "happy"})

	if counts.Total() != 1 {
		t.Errorf("Total = %d, expected 1", counts.Total())
	}
	if counts[Happy] != 1 {
		t.Errorf("happy = %d, expected 1", counts[Happy])
	}
}

func TestNormalize_AllKeysPresent(t *testing.T) {
	counts := Normalize(nil)

	if len(counts) != len(Categories) {
		t.Fatalf("keys = %d, expected %d", len(counts), len(Categories))
	}
	for _, c := range Categories {
		v, ok := counts[c]
		if !ok {
			t.Errorf("category %s missing", c)
		}
		if v != 0 {
			t.Errorf("category %s = %d, expected 0", c, v)
		}
	}
}

func TestCounts_Clone(t *testing.T) {
	original := Normalize([]string{"happy", "happy", "sad"})
	clone := original.Clone()

	clone[Happy] = 99
	if original[Happy] != 2 {
		t.Errorf("clone mutated the original: happy = %d", original[Happy])
	}
	if len(clone) != len(Categories) {
		t.Errorf("clone keys = %d, expected %d", len(clone), len(Categories))
	}
}
