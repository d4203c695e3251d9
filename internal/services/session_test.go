package services

import "testing"

func TestClassifyShot(t *testing.T) {
	cases := []struct {
		name     string
		offsetX  float64
		offsetY  float64
		expected string
	}{
		{"dead center", 0, 0, "centered"},
		{"inside radius", 10, -12, "centered"},
		{"high", 0, 40, "high"},
		{"low", 5, -35, "low"},
		{"left", -30, 0, "left"},
		{"right", 45, 10, "right"},
		{"high left", -28, 33, "high_left"},
		{"high right", 26, 22, "high_right"},
		{"low left", -21, -50, "low_left"},
		{"low right", 38, -24, "low_right"},
		{"diagonal outside radius, vertical dominant", 15, 16, "high"},
		{"diagonal outside radius, horizontal dominant", -17, -15, "left"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyShot(tc.offsetX, tc.offsetY)
			if got != tc.expected {
				t.Fatalf("ClassifyShot(%v, %v) = %q, want %q", tc.offsetX, tc.offsetY, got, tc.expected)
			}
		})
	}
}
