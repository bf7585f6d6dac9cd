// Package orbit advances the orbital and spin angles of every body in a
// scene once per frame.
package orbit

import (
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// Angular rates at a speed multiplier of 1, in radians per second
const (
	OrbitRate = 0.5 * 0.6
	SpinRate  = 60.0
)

// MaxStep bounds the elapsed time consumed by a single frame, in seconds
const MaxStep = 0.1

// Reference periods for period-scaled motion, in Earth days
const (
	referenceOrbitPeriod    = 365.26
	referenceRotationPeriod = 1.0
)

// Animator mutates body angles and mesh transforms. The zero value uses the
// flat rate for every body.
type Animator struct {
	// PeriodScaled makes each body's rates proportional to the inverse of its
	// own orbit and rotation periods, normalised so Earth keeps the flat rate.
	PeriodScaled bool
}

// ClampStep limits elapsed seconds to [0, MaxStep]
func ClampStep(elapsed float64) float64 {
	if !(elapsed > 0) {
		return 0
	}
	if elapsed > MaxStep {
		return MaxStep
	}
	return elapsed
}

// Advance moves every body of s forward by elapsed seconds at the given
// speeds and writes the resulting transforms to the meshes. It returns the
// clamped step that was applied. A torn-down scene is left untouched.
func (a Animator) Advance(s *scene.State, speeds Speeds, elapsed float64) float64 {
	dt := ClampStep(elapsed)
	if !s.Live() || dt == 0 {
		return dt
	}

	for i := range s.Bodies {
		b := &s.Bodies[i]
		orbitRate, spinRate := a.rates(b)
		b.OrbitAngle += orbitRate * speeds.Orbit * dt
		b.Spin += spinRate * speeds.Rotation * dt
		b.Place()
	}
	return dt
}

func (a Animator) rates(b *scene.BodyNode) (float64, float64) {
	if !a.PeriodScaled {
		return OrbitRate, SpinRate
	}
	return OrbitRate * referenceOrbitPeriod / b.Body.OrbitPeriod,
		SpinRate * referenceRotationPeriod / b.Body.RotationPeriod
}
