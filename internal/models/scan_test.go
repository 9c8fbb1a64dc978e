package models

import "testing"

func TestStageOf(t *testing.T) {
	tests := []struct {
		progress Progress
		want     Stage
	}{
		{Progress{Iterations: 36}, Configured},
		{Progress{Iterations: 36, Projected: 5}, PartiallyProjected},
		{Progress{Iterations: 36, Projected: 36}, FullyProjected},
		{Progress{Iterations: 36, Projected: 36, Reconstructed: 1}, PartiallyReconstructed},
		{Progress{Iterations: 36, Projected: 20, Reconstructed: 20}, PartiallyReconstructed},
		{Progress{Iterations: 36, Projected: 36, Reconstructed: 36}, FullyReconstructed},
	}

	for _, tt := range tests {
		if got := StageOf(tt.progress); got != tt.want {
			t.Errorf("StageOf(%+v) = %v, want %v", tt.progress, got, tt.want)
		}
	}
}

func TestStageString(t *testing.T) {
	if got := FullyProjected.String(); got != "fully projected" {
		t.Errorf("Expected %q, got %q", "fully projected", got)
	}
	if got := Stage(99).String(); got != "unknown" {
		t.Errorf("Expected %q, got %q", "unknown", got)
	}
}
