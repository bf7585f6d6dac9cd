// Package scene owns every renderable resource of one orrery session.
// A State is an arena: bodies, their meshes and orbit paths live in slices
// indexed by catalog index, so a picked mesh maps back to its body in O(1).
package scene

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/catalog"
)

// ErrTornDown is returned when a released State is accessed
var ErrTornDown = errors.New("scene has been torn down")

// Sphere tessellation used by drawers that build real vertex buffers
const (
	bodySegments = 16
	sunSegments  = 32
)

var (
	sunColor     = color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}
	ambientColor = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF}
	white        = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Options controls scene construction
type Options struct {
	ScaleFactor   float64 // orbit radius = distance * ScaleFactor
	DisplayScale  float64 // mesh radius = display radius * DisplayScale
	SunRadius     float64
	OrbitSegments int
	StarCount     int
	StarFieldSize float64 // edge of the cube the stars are sampled in
}

// DefaultOptions returns the stock scene layout
func DefaultOptions() Options {
	return Options{
		ScaleFactor:   0.2,
		DisplayScale:  10,
		SunRadius:     20,
		OrbitSegments: 128,
		StarCount:     5000,
		StarFieldSize: 2000,
	}
}

func (o Options) validate() error {
	switch {
	case !(o.ScaleFactor > 0):
		return fmt.Errorf("scale factor must be positive, got %v", o.ScaleFactor)
	case !(o.DisplayScale > 0):
		return fmt.Errorf("display scale must be positive, got %v", o.DisplayScale)
	case !(o.SunRadius > 0):
		return fmt.Errorf("sun radius must be positive, got %v", o.SunRadius)
	case o.OrbitSegments < 3:
		return fmt.Errorf("orbit segments must be at least 3, got %d", o.OrbitSegments)
	case o.StarCount < 0:
		return fmt.Errorf("star count must not be negative, got %d", o.StarCount)
	case o.StarCount > 0 && !(o.StarFieldSize > 0):
		return fmt.Errorf("star field size must be positive, got %v", o.StarFieldSize)
	}
	return nil
}

// BodyNode is the per-body mutable state
type BodyNode struct {
	Index       int
	Body        catalog.Body
	AssetKey    string
	Mesh        *Mesh
	Orbit       *Line
	OrbitRadius float64
	OrbitAngle  float64
	Spin        float64
}

// Place writes the orbit angle and spin into the mesh transform
func (b *BodyNode) Place() {
	b.Mesh.Position = mgl64.Vec3{
		math.Cos(b.OrbitAngle) * b.OrbitRadius,
		0,
		math.Sin(b.OrbitAngle) * b.OrbitRadius,
	}
	b.Mesh.RotationY = b.Spin
}

// State is the arena that owns one session's scene
type State struct {
	Graph   *Graph
	Bodies  []BodyNode
	Sun     *Mesh
	Light   *Light
	Ambient *Light
	Stars   *Points

	owned []NodeID
	torn  bool
}

// Build creates the scene for bodies. rng seeds the initial orbit angles and
// the starfield. If a body cannot be built, everything created so far is
// released and the error is returned.
func Build(bodies []catalog.Body, opts Options, rng *rand.Rand) (*State, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid scene options: %w", err)
	}
	if rng == nil {
		return nil, errors.New("scene: nil random source")
	}

	s := &State{
		Graph:  NewGraph(),
		Bodies: make([]BodyNode, 0, len(bodies)),
	}

	s.buildStars(opts, rng)
	s.buildSun(opts)
	s.buildLights()

	for i, b := range bodies {
		if err := catalog.ValidateBody(b); err != nil {
			s.Teardown()
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		s.buildBody(i, b, opts, rng.Float64()*2*math.Pi)
	}

	return s, nil
}

func (s *State) attach(n Node) NodeID {
	id := s.Graph.Add(n)
	s.owned = append(s.owned, id)
	return id
}

func (s *State) buildStars(opts Options, rng *rand.Rand) {
	if opts.StarCount == 0 {
		return
	}
	pts := make([]mgl64.Vec3, opts.StarCount)
	for i := range pts {
		pts[i] = mgl64.Vec3{
			(rng.Float64() - 0.5) * opts.StarFieldSize,
			(rng.Float64() - 0.5) * opts.StarFieldSize,
			(rng.Float64() - 0.5) * opts.StarFieldSize,
		}
	}
	s.Stars = &Points{
		Geometry: &Geometry{Kind: GeometryPointCloud, Points: pts},
		Material: &Material{Color: white, Opacity: 0.8, PointSize: 0.5},
	}
	s.attach(s.Stars)
}

func (s *State) buildSun(opts Options) {
	s.Sun = &Mesh{
		Index:    -1,
		Name:     "Sun",
		Geometry: &Geometry{Kind: GeometrySphere, Radius: opts.SunRadius, Segments: sunSegments},
		Material: &Material{Color: sunColor, Opacity: 1, Emissive: true},
	}
	s.attach(s.Sun)
}

func (s *State) buildLights() {
	s.Light = &Light{Type: LightPoint, Color: sunColor, Intensity: 2, Range: 10000}
	s.Ambient = &Light{Type: LightAmbient, Color: ambientColor, Intensity: 0.5}
	s.attach(s.Light)
	s.attach(s.Ambient)
}

func (s *State) buildBody(i int, b catalog.Body, opts Options, angle float64) {
	radius := b.DistanceFromOrigin * opts.ScaleFactor

	node := BodyNode{
		Index:       i,
		Body:        b,
		AssetKey:    b.AssetKey(),
		OrbitRadius: radius,
		OrbitAngle:  angle,
		Orbit: &Line{
			Geometry: &Geometry{Kind: GeometryPolyline, Points: OrbitPath(radius, opts.OrbitSegments)},
			Material: &Material{Color: white, Opacity: 0.3},
		},
		Mesh: &Mesh{
			Index:    i,
			Name:     b.Name,
			Geometry: &Geometry{Kind: GeometrySphere, Radius: b.DisplayRadius * opts.DisplayScale, Segments: bodySegments},
			Material: &Material{Color: b.RGBA(), Opacity: 1, Wireframe: true},
		},
	}
	node.Place()
	s.attach(node.Orbit)
	s.attach(node.Mesh)
	s.Bodies = append(s.Bodies, node)
}

// OrbitPath samples a circle of radius r in the XZ plane at segments uniform
// steps. The last point repeats the first to close the loop.
func OrbitPath(r float64, segments int) []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, segments+1)
	for i := 0; i <= segments; i++ {
		a := float64(i) / float64(segments) * 2 * math.Pi
		pts[i] = mgl64.Vec3{math.Cos(a) * r, 0, math.Sin(a) * r}
	}
	return pts
}

// Len returns the number of bodies, 0 once torn down
func (s *State) Len() int {
	if s == nil || s.torn {
		return 0
	}
	return len(s.Bodies)
}

// Body returns the node for catalog index i
func (s *State) Body(i int) (*BodyNode, error) {
	if s == nil || s.torn {
		return nil, ErrTornDown
	}
	if i < 0 || i >= len(s.Bodies) {
		return nil, fmt.Errorf("body index %d out of range [0,%d)", i, len(s.Bodies))
	}
	return &s.Bodies[i], nil
}

// Live reports whether the state can still be drawn and animated
func (s *State) Live() bool {
	return s != nil && !s.torn
}

// Teardown detaches every node and releases every geometry and material.
// Safe on a partially built state and safe to call more than once.
func (s *State) Teardown() {
	if s == nil || s.torn {
		return
	}
	s.torn = true

	for i := len(s.owned) - 1; i >= 0; i-- {
		s.Graph.Remove(s.owned[i])
	}
	s.owned = nil

	for i := range s.Bodies {
		b := &s.Bodies[i]
		if b.Mesh != nil {
			b.Mesh.Geometry.Dispose()
			b.Mesh.Material.Dispose()
		}
		if b.Orbit != nil {
			b.Orbit.Geometry.Dispose()
			b.Orbit.Material.Dispose()
		}
	}
	if s.Sun != nil {
		s.Sun.Geometry.Dispose()
		s.Sun.Material.Dispose()
	}
	if s.Stars != nil {
		s.Stars.Geometry.Dispose()
		s.Stars.Material.Dispose()
	}
}
