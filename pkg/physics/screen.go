// pkg/physics/screen.go
package physics

import "math"

// Vector2D is a point or offset in screen pixels
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns the distance between two points
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Circle is a round screen-space hit area, e.g. a projected body
type Circle struct {
	Center Vector2D
	Radius float64
}

// Contains reports whether p is inside the circle
func (c Circle) Contains(p Vector2D) bool {
	return c.Center.Distance(p) <= c.Radius
}

// Rect is an axis-aligned screen-space area anchored at its top-left corner
type Rect struct {
	Min    Vector2D
	Width  float64
	Height float64
}

// Contains reports whether p is inside the rectangle
func (r Rect) Contains(p Vector2D) bool {
	return p.X >= r.Min.X &&
		p.X < r.Min.X+r.Width &&
		p.Y >= r.Min.Y &&
		p.Y < r.Min.Y+r.Height
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}
