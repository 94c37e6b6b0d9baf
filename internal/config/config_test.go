package config

import "testing"

func TestValidate_SamplingInterval(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{1, false},
		{5, false},
		{100, false},
		{0, true},
		{-3, true},
	}

	for _, tt := range tests {
		cfg := &Config{AnalyzeEveryN: tt.n, CascadePath: "cascade.xml"}
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate with N=%d: err = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}

func TestValidate_CascadePathRequired(t *testing.T) {
	cfg := &Config{AnalyzeEveryN: 5}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty cascade path")
	}
}

func TestParseCameraNames(t *testing.T) {
	tests := []struct {
		raw      string
		expected map[string]string
	}{
		{"", map[string]string{}},
		{"10.0.0.5=classroom-a", map[string]string{"10.0.0.5": "classroom-a"}},
		{"10.0.0.5=room-a, 10.0.0.6=room-b", map[string]string{"10.0.0.5": "room-a", "10.0.0.6": "room-b"}},
		{"garbage", map[string]string{}},
		{"=noname,10.0.0.7=", map[string]string{}},
	}

	for _, tt := range tests {
		got := parseCameraNames(tt.raw)
		if len(got) != len(tt.expected) {
			t.Errorf("parseCameraNames(%q) = %v, expected %v", tt.raw, got, tt.expected)
			continue
		}
		for k, v := range tt.expected {
			if got[k] != v {
				t.Errorf("parseCameraNames(%q)[%s] = %q, expected %q", tt.raw, k, got[k], v)
			}
		}
	}
}
