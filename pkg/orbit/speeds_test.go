// pkg/orbit/speeds_test.go
package orbit

import (
	"math"
	"testing"
)

func TestClampSpeed(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{2.5, 2.5},
		{5, 5},
		{7, 5},
		{math.NaN(), 0},
		{math.Inf(1), 5},
	}
	for _, tt := range tests {
		if got := ClampSpeed(tt.in); got != tt.want {
			t.Errorf("ClampSpeed(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSpeeds_Setters(t *testing.T) {
	s := DefaultSpeeds()
	if s.Orbit != 1 || s.Rotation != 1 {
		t.Fatalf("DefaultSpeeds() = %+v", s)
	}
	if got := s.SetOrbit(9); got != MaxSpeed || s.Orbit != MaxSpeed {
		t.Errorf("SetOrbit(9) = %v, stored %v", got, s.Orbit)
	}
	if got := s.SetRotation(-3); got != MinSpeed || s.Rotation != MinSpeed {
		t.Errorf("SetRotation(-3) = %v, stored %v", got, s.Rotation)
	}
}

func TestStep(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		n    int
		want float64
	}{
		{"up", 1, 1, 1.1},
		{"down", 1, -1, 0.9},
		{"snaps drift", 0.30000000000000004, 1, 0.4},
		{"floor", 0.05, -1, 0},
		{"ceiling", 4.95, 2, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Step(tt.v, tt.n); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Step(%v, %d) = %v, want %v", tt.v, tt.n, got, tt.want)
			}
		})
	}
}
