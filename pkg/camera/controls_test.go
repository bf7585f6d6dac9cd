// pkg/camera/controls_test.go
package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newControls() *Controls {
	c := New(DefaultSettings(), mgl64.Vec3{0, 200, 500}, mgl64.Vec3{})
	c.SetViewport(800, 600)
	return c
}

func settle(c *Controls, ticks int) {
	for i := 0; i < ticks; i++ {
		c.Update(1.0 / 60.0)
	}
}

// vecNear compares component-wise with an absolute tolerance
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestNew_InitialPose(t *testing.T) {
	c := newControls()

	if p := c.Position(); !vecNear(p, mgl64.Vec3{0, 200, 500}, 1e-9) {
		t.Errorf("Position() = %v, want [0 200 500]", p)
	}
	if want := math.Sqrt(200*200 + 500*500); math.Abs(c.Distance()-want) > 1e-9 {
		t.Errorf("Distance() = %v, want %v", c.Distance(), want)
	}
	if !c.Settled() {
		t.Error("fresh controls should be settled")
	}
}

func TestSetDistance_Clamps(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		want      float64
	}{
		{"below min", 10, 100},
		{"above max", 5000, 1000},
		{"inside", 400, 400},
		{"at min", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newControls()
			c.SetDistance(tt.requested)
			if c.GoalDistance() != tt.want {
				t.Errorf("GoalDistance() = %v, want %v", c.GoalDistance(), tt.want)
			}
			settle(c, 2000)
			if math.Abs(c.Distance()-tt.want) > 1e-6 {
				t.Errorf("settled Distance() = %v, want %v", c.Distance(), tt.want)
			}
		})
	}
}

func TestZoom_RepeatedStepsStayInBounds(t *testing.T) {
	c := newControls()
	for i := 0; i < 500; i++ {
		c.Zoom(1)
		c.Update(0)
	}
	if c.GoalDistance() != 100 {
		t.Errorf("zoom in: GoalDistance() = %v, want 100", c.GoalDistance())
	}
	for i := 0; i < 500; i++ {
		c.Zoom(-1)
		c.Update(0)
	}
	if c.GoalDistance() != 1000 {
		t.Errorf("zoom out: GoalDistance() = %v, want 1000", c.GoalDistance())
	}
	if d := c.Distance(); d < 100 || d > 1000 {
		t.Errorf("live distance %v left [100, 1000]", d)
	}
}

func TestZoom_StepScale(t *testing.T) {
	c := newControls()
	start := c.GoalDistance()
	c.Zoom(1)
	if want := start * math.Pow(0.95, 0.5); math.Abs(c.GoalDistance()-want) > 1e-9 {
		t.Errorf("GoalDistance() = %v, want %v", c.GoalDistance(), want)
	}
}

func TestUpdate_DampingNeverOvershoots(t *testing.T) {
	c := newControls()
	start := c.Distance()
	goal := 150.0
	c.SetDistance(goal)

	prevGap := start - goal
	for i := 0; i < 400; i++ {
		c.Update(1.0 / 60.0)
		d := c.Distance()
		if d < goal {
			t.Fatalf("tick %d: distance %v overshot goal %v", i, d, goal)
		}
		gap := d - goal
		if gap > prevGap {
			t.Fatalf("tick %d: gap grew from %v to %v", i, prevGap, gap)
		}
		// each tick removes exactly the damping fraction of the remaining gap
		if prevGap > 1e-6 && math.Abs(gap-prevGap*(1-0.05)) > 1e-9 {
			t.Fatalf("tick %d: gap %v, want %v", i, gap, prevGap*0.95)
		}
		prevGap = gap
	}
}

func TestUpdate_WithoutInputIsStable(t *testing.T) {
	c := newControls()
	before := c.Position()
	settle(c, 10)
	if !vecNear(c.Position(), before, 1e-9) {
		t.Errorf("camera drifted without input: %v -> %v", before, c.Position())
	}
}

func TestUpdate_StepIgnoresFrameDelta(t *testing.T) {
	fast, slow := newControls(), newControls()
	for _, c := range []*Controls{fast, slow} {
		c.SetDistance(150)
		c.Rotate(40, 10)
	}
	for i := 0; i < 30; i++ {
		fast.Update(1.0 / 60.0)
		slow.Update(1)
	}
	if fast.Position() != slow.Position() {
		t.Errorf("Position() = %v with dt 1/60, %v with dt 1; want equal", fast.Position(), slow.Position())
	}
	if fast.Distance() != slow.Distance() {
		t.Errorf("Distance() = %v with dt 1/60, %v with dt 1; want equal", fast.Distance(), slow.Distance())
	}
}

func TestRotate_OrbitsAroundTarget(t *testing.T) {
	c := newControls()
	r := c.Distance()
	c.Rotate(100, 0)
	settle(c, 2000)

	if c.Position()[0] >= 0 {
		t.Errorf("dragging right should swing the camera to -X, got %v", c.Position())
	}
	if math.Abs(c.Position().Sub(c.Target()).Len()-r) > 1e-6 {
		t.Error("rotation changed the distance to the target")
	}
}

func TestRotate_PolarAngleIsClamped(t *testing.T) {
	c := newControls()
	c.Rotate(0, 1e6)
	settle(c, 5000)
	p := c.Position()
	if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsNaN(p[2]) {
		t.Fatalf("position became NaN: %v", p)
	}
	if math.Abs(p.Sub(c.Target()).Len()-c.Distance()) > 1e-6 {
		t.Error("distance not preserved at the pole")
	}
}

func TestPan_MovesTargetInScreenPlane(t *testing.T) {
	c := newControls()
	c.Pan(-50, 0)
	settle(c, 2000)

	tgt := c.Target()
	if tgt[0] <= 0 {
		t.Errorf("dragging left should move the target to +X, got %v", tgt)
	}
	if math.Abs(tgt[1]) > 1e-6 || math.Abs(tgt[2]) > 1e-6 {
		t.Errorf("horizontal pan moved the target off the X axis: %v", tgt)
	}
}

func TestSetViewport_RejectsZeroArea(t *testing.T) {
	c := newControls()
	tests := []struct{ w, h int }{{0, 600}, {800, 0}, {-1, -1}}
	for _, tt := range tests {
		if c.SetViewport(tt.w, tt.h) {
			t.Errorf("SetViewport(%d, %d) accepted", tt.w, tt.h)
		}
	}
	if w, h := c.Viewport(); w != 800 || h != 600 {
		t.Errorf("viewport changed to %dx%d", w, h)
	}
	if a := c.Aspect(); math.Abs(a-800.0/600.0) > 1e-12 {
		t.Errorf("Aspect() = %v", a)
	}

	if !c.SetViewport(1920, 1080) {
		t.Fatal("SetViewport(1920, 1080) rejected")
	}
	if a := c.Aspect(); math.Abs(a-16.0/9.0) > 1e-12 {
		t.Errorf("Aspect() = %v, want 16/9", a)
	}
}

func TestProject_TargetAtViewportCenter(t *testing.T) {
	c := newControls()
	x, y, depth, ok := c.Project(mgl64.Vec3{})
	if !ok {
		t.Fatal("target projected behind the camera")
	}
	if math.Abs(x-400) > 1e-6 || math.Abs(y-300) > 1e-6 {
		t.Errorf("Project(target) = (%v, %v), want (400, 300)", x, y)
	}
	if depth <= -1 || depth >= 1 {
		t.Errorf("depth %v outside the frustum", depth)
	}

	if _, _, _, ok := c.Project(mgl64.Vec3{0, 400, 1000}); ok {
		t.Error("point behind the camera reported visible")
	}
}

func TestProject_UpIsUp(t *testing.T) {
	c := newControls()
	_, yAbove, _, _ := c.Project(mgl64.Vec3{0, 50, 0})
	_, yCenter, _, _ := c.Project(mgl64.Vec3{})
	if !(yAbove < yCenter) {
		t.Errorf("world +Y should map to smaller pixel y: %v vs %v", yAbove, yCenter)
	}
}

func TestProjectedRadius(t *testing.T) {
	c := newControls()
	r := c.ProjectedRadius(10, 500)
	want := 10.0 / 500.0 / math.Tan(mgl64.DegToRad(37.5)) * 300
	if math.Abs(r-want) > 1e-9 {
		t.Errorf("ProjectedRadius() = %v, want %v", r, want)
	}
	if c.ProjectedRadius(10, 0) != 0 {
		t.Error("ProjectedRadius at zero distance should be 0")
	}
}
