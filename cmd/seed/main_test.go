package main

import "testing"

func TestFakePatientCount(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 200},
		{"0", 0},
		{"25", 25},
		{"-3", 200},
		{"many", 200},
	}

	for _, tt := range tests {
		t.Setenv("SEED_FAKE_PATIENTS", tt.value)
		if got := fakePatientCount(); got != tt.want {
			t.Errorf("SEED_FAKE_PATIENTS=%q: Expected %d, got %d", tt.value, tt.want, got)
		}
	}
}

func TestSeedValueFromEnv(t *testing.T) {
	t.Setenv("SEED_VALUE", "42")
	if got := seedValue(); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
}
