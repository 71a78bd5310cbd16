package tools

import (
	"testing"
	"time"
)

func TestValidYear(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		year string
		want bool
	}{
		{"1991", true},
		{"2025", true}, // last full year
		{"2026", false},
		{"1990", false},
		{"1000 BC", true},
		{"1 CE", true},
		{"1900", true},
		{"2030", true},
		{"3000", true},
		{"2031", false},
		{"9999", false},
		{"yesterday", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validYear(tt.year, now); got != tt.want {
			t.Errorf("validYear(%q) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestMediaControlInput_NormalizedAction(t *testing.T) {
	if got := (MediaControlInput{}).NormalizedAction(); got != ActionToggle {
		t.Errorf("empty action normalized to %q, want toggle", got)
	}
	if got := (MediaControlInput{Action: ActionNext}).NormalizedAction(); got != ActionNext {
		t.Errorf("action = %q, want next", got)
	}
}

func TestSettingsInput_Empty(t *testing.T) {
	if !(SettingsInput{}).Empty() {
		t.Error("zero input should be empty")
	}
	v := 0.2
	if (SettingsInput{MasterVolume: &v}).Empty() {
		t.Error("volume-only input should not be empty")
	}
	off := false
	if (SettingsInput{SpeechEnabled: &off}).Empty() {
		t.Error("explicit false is still a provided setting")
	}
}
