// Package camera implements an orbiting perspective camera driven by pointer
// drag and wheel input. Input moves goal coordinates; Update eases the live
// camera toward them by a fixed damping factor per tick.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-orrery/pkg/physics"
)

// polar angle stays this far from the poles so the view never flips
const polarEpsilon = 1e-6

// settled is the distance below which a damped value snaps to its goal
const settled = 1e-9

var worldUp = mgl64.Vec3{0, 1, 0}

// Settings configures the camera and its input sensitivity
type Settings struct {
	FOV            float64 // vertical, degrees
	Near           float64
	Far            float64
	DampingFactor  float64
	MinDistance    float64
	MaxDistance    float64
	RotateSpeed    float64
	ZoomSpeed      float64
	PanSpeed       float64
	ClickThreshold float64 // pixels of pointer travel that turn a press into a drag
}

// DefaultSettings returns the stock camera tuning
func DefaultSettings() Settings {
	return Settings{
		FOV:            75,
		Near:           0.1,
		Far:            10000,
		DampingFactor:  0.05,
		MinDistance:    100,
		MaxDistance:    1000,
		RotateSpeed:    0.5,
		ZoomSpeed:      0.5,
		PanSpeed:       0.5,
		ClickThreshold: 4,
	}
}

// Button identifies the pointer button driving a gesture
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
)

// spherical coordinates around the target: theta is the azimuth about +Y
// measured from +Z, phi the polar angle from +Y
type spherical struct {
	theta, phi, radius float64
}

// Controls owns the camera state
type Controls struct {
	settings Settings

	current    spherical
	goal       spherical
	target     mgl64.Vec3
	goalTarget mgl64.Vec3

	width, height int

	button  Button
	start   physics.Vector2D
	last    physics.Vector2D
	dragged bool
}

// New creates controls looking from position at target with a 1x1 viewport.
// Call SetViewport before drawing.
func New(settings Settings, position, target mgl64.Vec3) *Controls {
	c := &Controls{
		settings:   settings,
		target:     target,
		goalTarget: target,
		width:      1,
		height:     1,
	}
	c.current = c.toSpherical(position.Sub(target))
	c.goal = c.current
	return c
}

func (c *Controls) toSpherical(offset mgl64.Vec3) spherical {
	r := offset.Len()
	s := spherical{radius: c.clampDistance(r)}
	if r > 0 {
		s.theta = math.Atan2(offset[0], offset[2])
		s.phi = math.Acos(mgl64.Clamp(offset[1]/r, -1, 1))
	}
	s.phi = clampPolar(s.phi)
	return s
}

func (c *Controls) clampDistance(d float64) float64 {
	return mgl64.Clamp(d, c.settings.MinDistance, c.settings.MaxDistance)
}

func clampPolar(phi float64) float64 {
	return mgl64.Clamp(phi, polarEpsilon, math.Pi-polarEpsilon)
}

// Settings returns the configuration in use
func (c *Controls) Settings() Settings {
	return c.settings
}

// SetViewport records the draw-surface size. Non-positive sizes are ignored
// and reported with false; the previous viewport stays in effect.
func (c *Controls) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.width, c.height = width, height
	return true
}

// Viewport returns the current draw-surface size
func (c *Controls) Viewport() (int, int) {
	return c.width, c.height
}

// Aspect returns width/height of the viewport
func (c *Controls) Aspect() float64 {
	return float64(c.width) / float64(c.height)
}

// Rotate orbits the goal by a pointer movement of dx, dy pixels. A drag
// across the full viewport height turns the camera by 2π·RotateSpeed.
func (c *Controls) Rotate(dx, dy float64) {
	h := float64(c.height)
	c.goal.theta -= 2 * math.Pi * dx / h * c.settings.RotateSpeed
	c.goal.phi = clampPolar(c.goal.phi - 2*math.Pi*dy/h*c.settings.RotateSpeed)
}

// Pan moves the goal target in the camera's screen plane so the point under
// the pointer follows it.
func (c *Controls) Pan(dx, dy float64) {
	offset := c.Position().Sub(c.target)
	targetDistance := offset.Len() * math.Tan(mgl64.DegToRad(c.settings.FOV)/2)

	right, up := c.basis()
	h := float64(c.height)
	left := right.Mul(-2 * dx * targetDistance / h * c.settings.PanSpeed)
	upward := up.Mul(2 * dy * targetDistance / h * c.settings.PanSpeed)
	c.goalTarget = c.goalTarget.Add(left).Add(upward)
}

// Zoom scales the goal distance. Positive steps move the camera closer; one
// step scales by 0.95^ZoomSpeed.
func (c *Controls) Zoom(steps float64) {
	scale := math.Pow(0.95, c.settings.ZoomSpeed)
	c.SetDistance(c.goal.radius * math.Pow(scale, steps))
}

// SetDistance requests a camera distance, clamped to [MinDistance, MaxDistance]
func (c *Controls) SetDistance(d float64) {
	if math.IsNaN(d) {
		return
	}
	c.goal.radius = c.clampDistance(d)
}

// Update eases the camera toward its goal by one damping step. It must run
// every frame so residual motion settles. The step is per tick regardless of
// the frame delta, which the signature shares with the animator.
func (c *Controls) Update(_ float64) {
	k := c.settings.DampingFactor
	c.current.theta = approach(c.current.theta, c.goal.theta, k)
	c.current.phi = clampPolar(approach(c.current.phi, c.goal.phi, k))
	c.current.radius = c.clampDistance(approach(c.current.radius, c.goal.radius, k))
	for i := 0; i < 3; i++ {
		c.target[i] = approach(c.target[i], c.goalTarget[i], k)
	}
}

func approach(cur, goal, k float64) float64 {
	d := goal - cur
	if math.Abs(d) < settled {
		return goal
	}
	return cur + d*k
}

// Settled reports whether the camera has reached its goal
func (c *Controls) Settled() bool {
	return c.current == c.goal && c.target == c.goalTarget
}

// Distance returns the live distance from the target
func (c *Controls) Distance() float64 {
	return c.current.radius
}

// GoalDistance returns the distance the camera is easing toward
func (c *Controls) GoalDistance() float64 {
	return c.goal.radius
}

// Target returns the live look-at point
func (c *Controls) Target() mgl64.Vec3 {
	return c.target
}

// Position returns the live camera position in world space
func (c *Controls) Position() mgl64.Vec3 {
	s := c.current
	sinPhi := math.Sin(s.phi)
	return c.target.Add(mgl64.Vec3{
		s.radius * sinPhi * math.Sin(s.theta),
		s.radius * math.Cos(s.phi),
		s.radius * sinPhi * math.Cos(s.theta),
	})
}

// basis returns the camera's right and up vectors in world space
func (c *Controls) basis() (mgl64.Vec3, mgl64.Vec3) {
	forward := c.target.Sub(c.Position()).Normalize()
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward)
	return right, up
}

// View returns the world-to-camera matrix
func (c *Controls) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position(), c.target, worldUp)
}

// Projection returns the perspective matrix for the current viewport
func (c *Controls) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.settings.FOV), c.Aspect(), c.settings.Near, c.settings.Far)
}

// ViewProjection returns Projection * View
func (c *Controls) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world point to viewport pixels. depth is the NDC z in
// [-1, 1]; ok is false for points behind the camera.
func (c *Controls) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	x = (ndc[0] + 1) / 2 * float64(c.width)
	y = (1 - ndc[1]) / 2 * float64(c.height)
	return x, y, ndc[2], true
}

// ProjectedRadius approximates the on-screen radius, in pixels, of a sphere
// of radius r whose center is at distance d from the camera.
func (c *Controls) ProjectedRadius(r, d float64) float64 {
	if d <= 0 {
		return 0
	}
	f := 1 / math.Tan(mgl64.DegToRad(c.settings.FOV)/2)
	return r / d * f * float64(c.height) / 2
}
