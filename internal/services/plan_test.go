package services

import (
	"reflect"
	"testing"
)

func TestFocusForCategory(t *testing.T) {
	cases := map[string]string{
		"low":        "trigger_control",
		"low_left":   "trigger_control",
		"low_right":  "trigger_control",
		"high":       "follow_through",
		"high_left":  "grip",
		"high_right": "grip",
		"left":       "sight_alignment",
		"right":      "sight_alignment",
		"centered":   "",
		"unknown":    "",
	}
	for category, expected := range cases {
		if got := FocusForCategory(category); got != expected {
			t.Fatalf("FocusForCategory(%q) = %q, want %q", category, got, expected)
		}
	}
}

func TestFocusPriorities(t *testing.T) {
	// Worst-first order is preserved; duplicate focus targets collapse.
	got := focusPriorities([]string{"low_left", "low", "high_left", "left", "centered"})
	want := []string{"trigger_control", "grip", "sight_alignment"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("focusPriorities = %v, want %v", got, want)
	}
}

func TestFocusPrioritiesEmpty(t *testing.T) {
	if got := focusPriorities(nil); len(got) != 0 {
		t.Fatalf("expected empty priorities, got %v", got)
	}
}
