// pkg/orbit/speeds.go
package orbit

import "math"

// Speed multiplier bounds and the step used by the speed controls
const (
	MinSpeed  = 0.0
	MaxSpeed  = 5.0
	SpeedStep = 0.1
)

// Speeds holds the user-controlled multipliers read by the animator each
// frame. The animator never writes them.
type Speeds struct {
	Orbit    float64
	Rotation float64
}

// DefaultSpeeds returns both multipliers at 1
func DefaultSpeeds() Speeds {
	return Speeds{Orbit: 1, Rotation: 1}
}

// ClampSpeed limits v to [MinSpeed, MaxSpeed]. NaN becomes MinSpeed.
func ClampSpeed(v float64) float64 {
	if math.IsNaN(v) || v < MinSpeed {
		return MinSpeed
	}
	if v > MaxSpeed {
		return MaxSpeed
	}
	return v
}

// SetOrbit stores the clamped orbit multiplier and returns it
func (s *Speeds) SetOrbit(v float64) float64 {
	s.Orbit = ClampSpeed(v)
	return s.Orbit
}

// SetRotation stores the clamped rotation multiplier and returns it
func (s *Speeds) SetRotation(v float64) float64 {
	s.Rotation = ClampSpeed(v)
	return s.Rotation
}

// Step nudges v by n speed steps, snapping to one decimal like a slider
func Step(v float64, n int) float64 {
	return ClampSpeed(math.Round((v+float64(n)*SpeedStep)*10) / 10)
}
