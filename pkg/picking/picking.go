// Package picking resolves a pointer click to the body under it.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// Viewport is the pixel rectangle the scene is drawn into
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// Camera is what the resolver needs from the viewport controller
type Camera interface {
	ViewProjection() mgl64.Mat4
	Viewport() (int, int)
}

// Hit describes the body a ray struck
type Hit struct {
	Index    int
	Name     string
	Distance float64
	Point    mgl64.Vec3
}

// NDC converts pixel coordinates to normalised device coordinates in
// [-1, 1]. Y is flipped so up is positive. ok is false for an empty viewport.
func NDC(px, py float64, vp Viewport) (x, y float64, ok bool) {
	if !(vp.Width > 0) || !(vp.Height > 0) {
		return 0, 0, false
	}
	x = (px-vp.Left)/vp.Width*2 - 1
	y = -((py-vp.Top)/vp.Height)*2 + 1
	return x, y, true
}

// RayThrough builds the world-space ray through NDC point (x, y), starting on
// the near plane and heading toward the far plane.
func RayThrough(viewProj mgl64.Mat4, x, y float64) (physics.Ray, bool) {
	if math.Abs(viewProj.Det()) < 1e-300 {
		return physics.Ray{}, false
	}
	inv := viewProj.Inv()

	nearWorld := inv.Mul4x1(mgl64.Vec4{x, y, -1, 1})
	farWorld := inv.Mul4x1(mgl64.Vec4{x, y, 1, 1})
	if nearWorld[3] == 0 || farWorld[3] == 0 {
		return physics.Ray{}, false
	}

	// Perspective divide
	near := nearWorld.Vec3().Mul(1 / nearWorld[3])
	far := farWorld.Vec3().Mul(1 / farWorld[3])
	return physics.NewRay(near, far.Sub(near)), true
}

// Nearest tests r against every body mesh of s and returns the closest hit.
// Equal distances resolve to the lower catalog index.
func Nearest(r physics.Ray, s *scene.State) (Hit, bool) {
	if !s.Live() {
		return Hit{}, false
	}

	best := Hit{Index: -1, Distance: math.Inf(1)}
	for i := range s.Bodies {
		m := s.Bodies[i].Mesh
		if m == nil || m.Geometry.Disposed() {
			continue
		}
		t, ok := physics.IntersectSphere(r, m.Bounds())
		if ok && t < best.Distance {
			best = Hit{Index: m.Index, Name: m.Name, Distance: t}
		}
	}
	if best.Index < 0 {
		return Hit{}, false
	}
	best.Point = r.At(best.Distance)
	return best, true
}

// Resolver maps clicks to bodies for one camera
type Resolver struct {
	camera Camera
}

// NewResolver creates a resolver reading pose and viewport from camera
func NewResolver(camera Camera) *Resolver {
	return &Resolver{camera: camera}
}

// Pick returns the body under pixel (px, py), or false when the click hits
// nothing, the scene is empty or gone, or the viewport has no area.
func (r *Resolver) Pick(s *scene.State, px, py float64) (Hit, bool) {
	if r == nil || r.camera == nil || s.Len() == 0 {
		return Hit{}, false
	}
	w, h := r.camera.Viewport()
	x, y, ok := NDC(px, py, Viewport{Width: float64(w), Height: float64(h)})
	if !ok {
		return Hit{}, false
	}
	ray, ok := RayThrough(r.camera.ViewProjection(), x, y)
	if !ok {
		return Hit{}, false
	}
	return Nearest(ray, s)
}
