// pkg/render/engo/raster.go
package engo

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/camera"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// ambient is the light every surface receives regardless of the sun
const ambient = 0x40 / 255.0 * 0.5

var (
	background     = color.RGBA{0, 0, 0, 255}
	selectionColor = color.RGBA{255, 255, 255, 255}
)

// Rasterizer draws the projected scene into an image. Spheres are drawn as
// lit discs in far-to-near order; lines and points are alpha blended.
type Rasterizer struct {
	frame *image.NRGBA
}

// NewRasterizer creates an empty rasterizer
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Frame returns the last drawn image
func (r *Rasterizer) Frame() *image.NRGBA {
	return r.frame
}

func (r *Rasterizer) ensure(w, h int) {
	if r.frame != nil && r.frame.Bounds().Dx() == w && r.frame.Bounds().Dy() == h {
		return
	}
	r.frame = image.NewNRGBA(image.Rect(0, 0, w, h))
}

// sphere is a mesh ready to be drawn
type sphere struct {
	mesh     *scene.Mesh
	disc     physics.Circle
	distance float64
	selected bool
}

// Draw renders v into the frame, sized to the camera viewport
func (r *Rasterizer) Draw(v engine.FrameView) *image.NRGBA {
	w, h := v.Camera.Viewport()
	r.ensure(w, h)
	draw.Draw(r.frame, r.frame.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	if !v.Scene.Live() {
		return r.frame
	}

	r.drawStars(v.Scene.Stars, v.Camera)
	for i := range v.Scene.Bodies {
		r.drawPolyline(v.Scene.Bodies[i].Orbit, v.Camera)
	}

	spheres := r.collectSpheres(v)
	// Painter's order
	sort.SliceStable(spheres, func(i, j int) bool {
		return spheres[i].distance > spheres[j].distance
	})
	view := v.Camera.View()
	for _, s := range spheres {
		r.drawSphere(s, view)
	}
	return r.frame
}

func (r *Rasterizer) collectSpheres(v engine.FrameView) []sphere {
	eye := v.Camera.Position()
	out := make([]sphere, 0, len(v.Scene.Bodies)+1)

	add := func(m *scene.Mesh, selected bool) {
		if m == nil || m.Geometry.Disposed() {
			return
		}
		// A camera inside the body would see it fill the whole frame
		if m.Bounds().Contains(eye) {
			return
		}
		x, y, depth, ok := v.Camera.Project(m.Position)
		if !ok || depth > 1 {
			return
		}
		d := m.Position.Sub(eye).Len()
		out = append(out, sphere{
			mesh: m,
			disc: physics.Circle{
				Center: physics.Vector2D{X: x, Y: y},
				Radius: math.Max(1, v.Camera.ProjectedRadius(m.Geometry.Radius, d)),
			},
			distance: d,
			selected: selected,
		})
	}

	add(v.Scene.Sun, false)
	for i := range v.Scene.Bodies {
		add(v.Scene.Bodies[i].Mesh, i == v.Selected)
	}
	return out
}

func (r *Rasterizer) drawStars(p *scene.Points, cam *camera.Controls) {
	if p == nil || p.Geometry.Disposed() {
		return
	}
	c := p.Material.Color
	for _, pt := range p.Geometry.Points {
		x, y, depth, ok := cam.Project(pt)
		if !ok || depth > 1 {
			continue
		}
		r.blend(int(x), int(y), c, p.Material.Opacity)
	}
}

func (r *Rasterizer) drawPolyline(l *scene.Line, cam *camera.Controls) {
	if l == nil || l.Geometry.Disposed() {
		return
	}
	pts := l.Geometry.Points
	for i := 1; i < len(pts); i++ {
		x0, y0, _, ok0 := cam.Project(pts[i-1])
		x1, y1, _, ok1 := cam.Project(pts[i])
		if !ok0 || !ok1 {
			continue
		}
		r.line(x0, y0, x1, y1, l.Material.Color, l.Material.Opacity)
	}
}

// line draws a segment by stepping one pixel along its major axis
func (r *Rasterizer) line(x0, y0, x1, y1 float64, c color.RGBA, alpha float64) {
	dx, dy := x1-x0, y1-y0
	steps := math.Ceil(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps > 8192 {
		return
	}
	if steps == 0 {
		r.blend(int(x0), int(y0), c, alpha)
		return
	}
	for i := 0.0; i < steps; i++ {
		t := i / steps
		r.blend(int(x0+dx*t), int(y0+dy*t), c, alpha)
	}
}

func (r *Rasterizer) drawSphere(s sphere, view mgl64.Mat4) {
	m := s.mesh
	base := m.Material.Color

	// Light direction in view space, from the body toward the sun
	toSun := mgl64.Vec3{}.Sub(m.Position)
	light := view.Mul4x1(toSun.Vec4(0)).Vec3()
	if light.Len() > 0 {
		light = light.Normalize()
	}
	shade := func(n mgl64.Vec3) float64 {
		if m.Material.Emissive {
			return 1
		}
		return math.Min(1, ambient+math.Max(0, n.Dot(light)))
	}

	tex := m.Material.Texture()
	switch {
	case tex != nil:
		r.fillDisc(s, func(n mgl64.Vec3) color.RGBA {
			return scale(sampleEquirect(tex.Image, n, m.RotationY), shade(n))
		})
	case m.Material.Wireframe:
		r.wireSphere(s, m.RotationY, func(n mgl64.Vec3) color.RGBA {
			return scale(base, shade(n))
		})
	default:
		r.fillDisc(s, func(n mgl64.Vec3) color.RGBA {
			return scale(base, shade(n))
		})
	}

	if s.selected {
		r.ring(physics.Circle{Center: s.disc.Center, Radius: s.disc.Radius + 3}, selectionColor)
	}
}

// fillDisc shades every pixel of the projected sphere by its view-space normal
func (r *Rasterizer) fillDisc(s sphere, shadeAt func(n mgl64.Vec3) color.RGBA) {
	b := r.frame.Bounds()
	c, rad := s.disc.Center, s.disc.Radius
	minX, maxX := max(b.Min.X, int(c.X-rad)), min(b.Max.X-1, int(c.X+rad))
	minY, maxY := max(b.Min.Y, int(c.Y-rad)), min(b.Max.Y-1, int(c.Y+rad))
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			p := physics.Vector2D{X: float64(px) + 0.5, Y: float64(py) + 0.5}
			if !s.disc.Contains(p) {
				continue
			}
			nx := (p.X - c.X) / rad
			ny := -(p.Y - c.Y) / rad
			n := mgl64.Vec3{nx, ny, math.Sqrt(math.Max(0, 1-nx*nx-ny*ny))}
			r.frame.Set(px, py, shadeAt(n))
		}
	}
}

// wireSphere draws meridians that turn with spin plus three parallels
func (r *Rasterizer) wireSphere(s sphere, spin float64, shadeAt func(n mgl64.Vec3) color.RGBA) {
	const meridians, samples = 6, 48
	plot := func(n mgl64.Vec3) {
		if n.Z() < 0 {
			return
		}
		x := int(s.disc.Center.X + n.X()*s.disc.Radius)
		y := int(s.disc.Center.Y - n.Y()*s.disc.Radius)
		if image.Pt(x, y).In(r.frame.Bounds()) {
			r.frame.Set(x, y, shadeAt(n))
		}
	}

	for k := 0; k < meridians; k++ {
		lon := float64(k)*math.Pi/meridians*2 - spin
		for i := 0; i <= samples; i++ {
			lat := -math.Pi/2 + math.Pi*float64(i)/samples
			plot(mgl64.Vec3{math.Cos(lat) * math.Sin(lon), math.Sin(lat), math.Cos(lat) * math.Cos(lon)})
		}
	}
	for _, lat := range []float64{-math.Pi / 4, 0, math.Pi / 4} {
		for i := 0; i <= samples*2; i++ {
			lon := 2 * math.Pi * float64(i) / (samples * 2)
			plot(mgl64.Vec3{math.Cos(lat) * math.Sin(lon), math.Sin(lat), math.Cos(lat) * math.Cos(lon)})
		}
	}
}

func (r *Rasterizer) ring(circle physics.Circle, c color.RGBA) {
	steps := int(math.Max(16, 2*math.Pi*circle.Radius))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := circle.Center.X + math.Cos(a)*circle.Radius
		y := circle.Center.Y + math.Sin(a)*circle.Radius
		r.blend(int(x), int(y), c, 1)
	}
}

// blend mixes c over the pixel at (x, y) with the given opacity
func (r *Rasterizer) blend(x, y int, c color.RGBA, alpha float64) {
	if !image.Pt(x, y).In(r.frame.Bounds()) {
		return
	}
	dst := r.frame.NRGBAAt(x, y)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-alpha) + float64(b)*alpha))
	}
	r.frame.SetNRGBA(x, y, color.NRGBA{
		R: mix(dst.R, c.R),
		G: mix(dst.G, c.G),
		B: mix(dst.B, c.B),
		A: 255,
	})
}

// sampleEquirect reads an equirectangular texture at the point of the
// sphere facing along n, turned by spin about the vertical axis.
func sampleEquirect(img *image.NRGBA, n mgl64.Vec3, spin float64) color.RGBA {
	b := img.Bounds()
	lon := math.Atan2(n.X(), n.Z()) + spin
	lat := math.Asin(math.Max(-1, math.Min(1, n.Y())))

	u := lon/(2*math.Pi) + 0.5
	u -= math.Floor(u)
	v := 0.5 - lat/math.Pi

	x := b.Min.X + min(b.Dx()-1, int(u*float64(b.Dx())))
	y := b.Min.Y + min(b.Dy()-1, max(0, int(v*float64(b.Dy()))))
	c := img.NRGBAAt(x, y)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func scale(c color.RGBA, k float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: 255,
	}
}
