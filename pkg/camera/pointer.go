// pkg/camera/pointer.go
package camera

import "github.com/opd-ai/go-orrery/pkg/physics"

// PointerDown starts a gesture with button at pixel (x, y). A press while
// another gesture is active is ignored.
func (c *Controls) PointerDown(button Button, x, y float64) {
	if c.button != ButtonNone || button == ButtonNone {
		return
	}
	p := physics.Vector2D{X: x, Y: y}
	c.button = button
	c.start = p
	c.last = p
	c.dragged = false
}

// PointerMove feeds a pointer position. While a gesture is active the
// primary button orbits and the secondary button pans.
func (c *Controls) PointerMove(x, y float64) {
	if c.button == ButtonNone {
		return
	}
	p := physics.Vector2D{X: x, Y: y}
	d := p.Sub(c.last)
	c.last = p

	if p.Distance(c.start) > c.settings.ClickThreshold {
		c.dragged = true
	}

	switch c.button {
	case ButtonPrimary:
		c.Rotate(d.X, d.Y)
	case ButtonSecondary:
		c.Pan(d.X, d.Y)
	}
}

// PointerUp ends the gesture started with button. It returns true when the
// gesture was a click: a press and release without a drag.
func (c *Controls) PointerUp(button Button, x, y float64) bool {
	if c.button == ButtonNone || button != c.button {
		return false
	}
	c.PointerMove(x, y)
	c.button = ButtonNone
	return !c.dragged
}

// DragOccurred reports whether the current or most recent gesture moved
// further than the click threshold.
func (c *Controls) DragOccurred() bool {
	return c.dragged
}

// Dragging reports whether a gesture is in progress
func (c *Controls) Dragging() bool {
	return c.button != ButtonNone
}
