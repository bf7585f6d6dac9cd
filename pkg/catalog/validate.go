package catalog

import (
	"fmt"
	"math"
	"unicode/utf8"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MaxNameLen bounds display labels so they fit the info panel header.
const MaxNameLen = 32

// Validate checks the catalog invariants: exactly Size records, unique
// non-empty names, strictly positive finite numbers and parseable colors.
func Validate(bodies []Body) error {
	if len(bodies) != Size {
		return fmt.Errorf("catalog must hold %d bodies, got %d", Size, len(bodies))
	}

	seen := make(map[string]struct{}, len(bodies))
	for i, b := range bodies {
		if err := ValidateBody(b); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("body %d: duplicate name %q", i, b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}

// ValidateBody checks a single record.
func ValidateBody(b Body) error {
	if b.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if !utf8.ValidString(b.Name) {
		return fmt.Errorf("name %q is not valid UTF-8", b.Name)
	}
	if utf8.RuneCountInString(b.Name) > MaxNameLen {
		return fmt.Errorf("name %q too long (max %d)", b.Name, MaxNameLen)
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"diameterKm", b.DiameterKm},
		{"massUnits", b.MassUnits},
		{"distanceFromOrigin", b.DistanceFromOrigin},
		{"orbitPeriod", b.OrbitPeriod},
		{"rotationPeriod", b.RotationPeriod},
		{"displayRadius", b.DisplayRadius},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return fmt.Errorf("%s of %q must be a positive number, got %v", f.name, b.Name, f.value)
		}
	}

	if _, err := colorful.Hex(b.Color); err != nil {
		return fmt.Errorf("color of %q: %w", b.Name, err)
	}
	return nil
}
