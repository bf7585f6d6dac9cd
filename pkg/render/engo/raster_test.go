// pkg/render/engo/raster_test.go
package engo

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/camera"
	"github.com/opd-ai/go-orrery/pkg/catalog"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/orbit"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

const earthIndex = 2

// buildView returns a 400x300 view with every body on the far side of its
// orbit except Earth, which is placed at nearAngle.
func buildView(t *testing.T, nearAngle float64) engine.FrameView {
	t.Helper()
	opts := scene.DefaultOptions()
	opts.StarCount = 0
	s, err := scene.Build(catalog.Default().Bodies(), opts, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(s.Teardown)

	for i := range s.Bodies {
		s.Bodies[i].OrbitAngle = -math.Pi / 2
		if i == earthIndex {
			s.Bodies[i].OrbitAngle = nearAngle
		}
		s.Bodies[i].Place()
	}

	cam := camera.New(camera.DefaultSettings(), mgl64.Vec3{0, 200, 500}, mgl64.Vec3{})
	cam.SetViewport(400, 300)
	return engine.FrameView{
		Scene:    s,
		Camera:   cam,
		Speeds:   orbit.DefaultSpeeds(),
		Selected: engine.NoSelection,
	}
}

func projectBody(t *testing.T, v engine.FrameView, i int) (x, y, radius float64) {
	t.Helper()
	m := v.Scene.Bodies[i].Mesh
	x, y, _, ok := v.Camera.Project(m.Position)
	if !ok {
		t.Fatalf("body %d is behind the camera", i)
	}
	d := m.Position.Sub(v.Camera.Position()).Len()
	return x, y, v.Camera.ProjectedRadius(m.Geometry.Radius, d)
}

func TestRasterizer_SizedToViewport(t *testing.T) {
	v := buildView(t, -math.Pi/2)
	r := NewRasterizer()

	img := r.Draw(v)
	if got := img.Bounds().Size(); got != image.Pt(400, 300) {
		t.Fatalf("frame size = %v, want 400x300", got)
	}

	v.Camera.SetViewport(640, 480)
	if got := r.Draw(v).Bounds().Size(); got != image.Pt(640, 480) {
		t.Errorf("frame size after resize = %v, want 640x480", got)
	}
	if r.Frame() == nil {
		t.Error("Frame() = nil after Draw")
	}
}

func TestRasterizer_SunCoversFarBodies(t *testing.T) {
	v := buildView(t, -math.Pi/2)
	img := NewRasterizer().Draw(v)

	got := img.NRGBAAt(200, 150)
	want := v.Scene.Sun.Material.Color
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("center pixel = %v, want the sun's color %v", got, want)
	}
}

func TestRasterizer_CameraInsideBodySkipsIt(t *testing.T) {
	v := buildView(t, math.Pi/2)
	v.Scene.Bodies[earthIndex].Mesh.Position = v.Camera.Position()
	img := NewRasterizer().Draw(v)

	got := img.NRGBAAt(200, 150)
	want := v.Scene.Sun.Material.Color
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("center pixel = %v, want the sun's color %v", got, want)
	}
}

func TestRasterizer_NearBodyDrawnOverSun(t *testing.T) {
	v := buildView(t, math.Pi/2)
	x, y, _ := projectBody(t, v, earthIndex)
	img := NewRasterizer().Draw(v)

	got := img.NRGBAAt(int(x), int(y))
	sun := v.Scene.Sun.Material.Color
	if got.R == sun.R && got.G == sun.G && got.B == sun.B {
		t.Fatal("Earth's center shows the sun")
	}
	if got.B <= got.R {
		t.Errorf("Earth's center = %v, want a blue tint", got)
	}
}

func TestRasterizer_TextureReplacesFlatColor(t *testing.T) {
	v := buildView(t, math.Pi/2)
	red := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for i := 0; i < len(red.Pix); i += 4 {
		red.Pix[i], red.Pix[i+3] = 255, 255
	}
	if !v.Scene.Bodies[earthIndex].Mesh.Material.SetTexture(&scene.Texture{Key: "earth", Image: red}) {
		t.Fatal("SetTexture() refused on a live material")
	}

	x, y, radius := projectBody(t, v, earthIndex)
	img := NewRasterizer().Draw(v)

	// Inside the disc, off the center pixel
	px, py := int(x+radius*0.25), int(y+radius*0.25)
	got := img.NRGBAAt(px, py)
	if got.R == 0 || got.G != 0 || got.B != 0 {
		t.Errorf("textured pixel = %v, want pure red shading", got)
	}
}

func TestRasterizer_SelectionRing(t *testing.T) {
	v := buildView(t, math.Pi/2)
	v.Selected = earthIndex
	x, y, radius := projectBody(t, v, earthIndex)

	img := NewRasterizer().Draw(v)
	got := img.NRGBAAt(int(x+radius+3), int(y))
	if got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("ring pixel = %v, want white", got)
	}
}

func TestRasterizer_TornDownSceneIsBlank(t *testing.T) {
	v := buildView(t, math.Pi/2)
	v.Scene.Teardown()

	img := NewRasterizer().Draw(v)
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			t.Fatalf("pixel %d not background after teardown", i/4)
		}
	}
}

func TestRasterizer_StarsVisible(t *testing.T) {
	opts := scene.DefaultOptions()
	s, err := scene.Build(catalog.Default().Bodies(), opts, rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer s.Teardown()
	cam := camera.New(camera.DefaultSettings(), mgl64.Vec3{0, 200, 500}, mgl64.Vec3{})
	cam.SetViewport(200, 150)

	img := NewRasterizer().Draw(engine.FrameView{Scene: s, Camera: cam, Selected: engine.NoSelection})
	lit := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no pixels drawn for a scene with stars")
	}
}

func TestSampleEquirect_WrapsLongitude(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(2, 0, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(0, 1, color.NRGBA{40, 50, 60, 255})

	tests := []struct {
		name string
		n    mgl64.Vec3
		spin float64
		want color.RGBA
	}{
		{"facing, upper half", mgl64.Vec3{0, 0.1, 1}, 0, color.RGBA{10, 20, 30, 255}},
		{"full turn is identity", mgl64.Vec3{0, 0.1, 1}, 2 * math.Pi, color.RGBA{10, 20, 30, 255}},
		{"half turn, lower half", mgl64.Vec3{0, -0.1, 1}, math.Pi, color.RGBA{40, 50, 60, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sampleEquirect(img, tt.n.Normalize(), tt.spin); got != tt.want {
				t.Errorf("sampleEquirect() = %v, want %v", got, tt.want)
			}
		})
	}
}
