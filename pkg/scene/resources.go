// pkg/scene/resources.go
package scene

import (
	"image"
	"image/color"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/physics"
)

// GeometryKind is the shape held by a Geometry
type GeometryKind int

const (
	GeometrySphere GeometryKind = iota
	GeometryPolyline
	GeometryPointCloud
)

// Geometry holds vertex data. Spheres are parametric (Radius and Segments),
// polylines and point clouds carry explicit Points.
type Geometry struct {
	Kind     GeometryKind
	Radius   float64
	Segments int
	Points   []mgl64.Vec3

	disposed atomic.Bool
}

// Dispose releases the vertex data. Returns false if it was already released.
func (g *Geometry) Dispose() bool {
	if g == nil || !g.disposed.CompareAndSwap(false, true) {
		return false
	}
	g.Points = nil
	return true
}

// Disposed reports whether Dispose has been called
func (g *Geometry) Disposed() bool {
	return g == nil || g.disposed.Load()
}

// Texture is a decoded surface image for one body
type Texture struct {
	Key   string
	Image *image.NRGBA
}

// Material describes how a node is shaded. The texture slot may be filled
// asynchronously; all other fields are fixed at build.
type Material struct {
	Color     color.RGBA
	Opacity   float64
	Wireframe bool
	Emissive  bool
	PointSize float64

	texture  atomic.Pointer[Texture]
	disposed atomic.Bool
}

// SetTexture swaps in tex. It is refused once the material is disposed, so a
// late load never lands on a released resource.
func (m *Material) SetTexture(tex *Texture) bool {
	if m == nil || m.disposed.Load() {
		return false
	}
	m.texture.Store(tex)
	// Dispose may have raced with the store.
	if m.disposed.Load() {
		m.texture.Store(nil)
		return false
	}
	return true
}

// Texture returns the current texture or nil when the flat color applies
func (m *Material) Texture() *Texture {
	if m == nil {
		return nil
	}
	return m.texture.Load()
}

// Dispose releases the material. Returns false if it was already released.
func (m *Material) Dispose() bool {
	if m == nil || !m.disposed.CompareAndSwap(false, true) {
		return false
	}
	m.texture.Store(nil)
	return true
}

// Disposed reports whether Dispose has been called
func (m *Material) Disposed() bool {
	return m == nil || m.disposed.Load()
}

// Mesh is a sphere drawn at a transform. Index is the catalog index of the
// body it represents, or -1 for the sun.
type Mesh struct {
	Index     int
	Name      string
	Geometry  *Geometry
	Material  *Material
	Position  mgl64.Vec3
	RotationY float64
}

func (m *Mesh) Kind() NodeKind { return KindMesh }

// Bounds returns the bounding sphere used for picking
func (m *Mesh) Bounds() physics.Sphere {
	return physics.Sphere{Center: m.Position, Radius: m.Geometry.Radius}
}

// Line is an open or closed polyline such as an orbit guide
type Line struct {
	Geometry *Geometry
	Material *Material
}

func (l *Line) Kind() NodeKind { return KindLine }

// Points is a cloud of point sprites such as the starfield
type Points struct {
	Geometry *Geometry
	Material *Material
}

func (p *Points) Kind() NodeKind { return KindPoints }

// LightKind distinguishes point and ambient lights
type LightKind int

const (
	LightPoint LightKind = iota
	LightAmbient
)

// Light is a light source. Range is ignored for ambient lights.
type Light struct {
	Type      LightKind
	Color     color.RGBA
	Intensity float64
	Range     float64
	Position  mgl64.Vec3
}

func (l *Light) Kind() NodeKind { return KindLight }
