// pkg/physics/ray.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line in world space. Dir is always unit length.
type Ray struct {
	Origin mgl64.Vec3
	Dir    mgl64.Vec3
}

// NewRay creates a ray from origin towards dir. A zero direction yields a
// ray that intersects nothing.
func NewRay(origin, dir mgl64.Vec3) Ray {
	if dir.Len() == 0 {
		return Ray{Origin: origin}
	}
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Sphere is a bounding sphere used for hit testing
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Contains reports whether p lies inside or on the sphere
func (s Sphere) Contains(p mgl64.Vec3) bool {
	d := p.Sub(s.Center)
	return d.Dot(d) <= s.Radius*s.Radius
}

// IntersectSphere returns the smallest positive distance along r at which it
// meets s. When the origin is inside the sphere the exit distance is returned.
func IntersectSphere(r Ray, s Sphere) (float64, bool) {
	if r.Dir.Len() == 0 || !(s.Radius > 0) {
		return 0, false
	}

	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := b*b - c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := -b - sqrtD
	t1 := -b + sqrtD

	// Use the closer positive intersection
	t := t0
	if t <= 0 {
		t = t1
		if t <= 0 {
			return 0, false
		}
	}
	return t, true
}
