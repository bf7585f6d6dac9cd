// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/opd-ai/go-orrery/pkg/catalog"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/orbit"
	"github.com/opd-ai/go-orrery/pkg/physics"
)

// Action is what a click on the HUD asks for
type Action int

const (
	ActionNone Action = iota
	ActionOrbitDown
	ActionOrbitUp
	ActionRotationDown
	ActionRotationUp
	ActionClosePanel
)

// HUD layout in pixels
const (
	hudMargin     = 10
	lineHeight    = 18
	buttonSize    = 16
	controlsWidth = 210
	panelWidth    = 250
)

var helpLines = []string{
	"Left drag: rotate",
	"Right drag: pan",
	"Wheel: zoom",
	"Click a planet for details",
}

// HUD draws the speed controls, the selected body panel and the help text
// over the rendered scene. It follows selection and speed changes through
// the event bus.
type HUD struct {
	mu       sync.Mutex
	speeds   orbit.Speeds
	info     catalog.Info
	panel    bool
	width    int
	height   int
	buttons  map[Action]physics.Rect
	subs     event.Group
	assets   *AssetManager
	face     font.Face
	hudColor color.RGBA
	dimColor color.RGBA
	backdrop color.RGBA
}

// NewHUD creates a HUD showing the given speeds
func NewHUD(speeds orbit.Speeds, assets *AssetManager) *HUD {
	return &HUD{
		speeds:   speeds,
		buttons:  make(map[Action]physics.Rect),
		assets:   assets,
		face:     basicfont.Face7x13,
		hudColor: color.RGBA{255, 255, 255, 255},
		dimColor: color.RGBA{170, 170, 170, 255},
		backdrop: color.RGBA{0, 0, 0, 160},
	}
}

// Subscribe follows selection and speed events on bus
func (h *HUD) Subscribe(bus *event.Bus) {
	h.subs.Add(bus.Subscribe(event.BodySelected, func(e event.Event) {
		if ev, ok := e.(*event.SelectionEvent); ok {
			h.mu.Lock()
			h.info = catalog.FormatInfo(ev.Body)
			h.panel = true
			h.mu.Unlock()
		}
	}))
	h.subs.Add(bus.Subscribe(event.SelectionCleared, func(event.Event) {
		h.mu.Lock()
		h.panel = false
		h.mu.Unlock()
	}))
	h.subs.Add(bus.Subscribe(event.SpeedChanged, func(e event.Event) {
		if ev, ok := e.(*event.SpeedEvent); ok {
			h.mu.Lock()
			h.speeds = orbit.Speeds{Orbit: ev.Orbit, Rotation: ev.Rotation}
			h.mu.Unlock()
		}
	}))
}

// Unsubscribe releases every bus subscription
func (h *HUD) Unsubscribe() {
	h.subs.CancelAll()
}

// Layout places the buttons for a surface of the given size
func (h *HUD) Layout(width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.width, h.height = width, height
	button := func(x, y int) physics.Rect {
		return physics.Rect{
			Min:    physics.Vector2D{X: float64(x), Y: float64(y)},
			Width:  buttonSize,
			Height: buttonSize,
		}
	}

	minusX := hudMargin + controlsWidth - 2*buttonSize - 12
	plusX := hudMargin + controlsWidth - buttonSize - 6
	orbitY := hudMargin + 4
	rotationY := orbitY + lineHeight + 4

	h.buttons[ActionOrbitDown] = button(minusX, orbitY)
	h.buttons[ActionOrbitUp] = button(plusX, orbitY)
	h.buttons[ActionRotationDown] = button(minusX, rotationY)
	h.buttons[ActionRotationUp] = button(plusX, rotationY)
	h.buttons[ActionClosePanel] = button(width-hudMargin-buttonSize-4, hudMargin+4)
}

// PanelOpen reports whether the selected body panel is shown
func (h *HUD) PanelOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.panel
}

// SetSpeeds replaces the displayed speeds
func (h *HUD) SetSpeeds(s orbit.Speeds) {
	h.mu.Lock()
	h.speeds = s
	h.mu.Unlock()
}

// Speeds returns the speeds the HUD displays
func (h *HUD) Speeds() orbit.Speeds {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.speeds
}

// HitTest returns the action of the button under (x, y). The close button
// only exists while the panel is open.
func (h *HUD) HitTest(x, y float64) Action {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := physics.Vector2D{X: x, Y: y}
	for _, a := range []Action{ActionOrbitDown, ActionOrbitUp, ActionRotationDown, ActionRotationUp} {
		if h.buttons[a].Contains(p) {
			return a
		}
	}
	if h.panel && h.buttons[ActionClosePanel].Contains(p) {
		return ActionClosePanel
	}
	return ActionNone
}

// Covers reports whether (x, y) is over an opaque part of the HUD. Clicks
// there are not passed to the scene.
func (h *HUD) Covers(x, y float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := physics.Vector2D{X: x, Y: y}
	if h.controlsRect().Contains(p) {
		return true
	}
	return h.panel && h.panelRect().Contains(p)
}

func (h *HUD) controlsRect() physics.Rect {
	return physics.Rect{
		Min:    physics.Vector2D{X: hudMargin, Y: hudMargin},
		Width:  controlsWidth,
		Height: 2*lineHeight + 16,
	}
}

func (h *HUD) panelRect() physics.Rect {
	rows := len(h.info.Lines()) + 1
	return physics.Rect{
		Min:    physics.Vector2D{X: float64(h.width - hudMargin - panelWidth), Y: hudMargin},
		Width:  panelWidth,
		Height: float64(rows*lineHeight + 16),
	}
}

// Draw paints the HUD onto dst
func (h *HUD) Draw(dst draw.Image) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Speed controls
	h.renderRect(dst, h.controlsRect(), h.backdrop)
	h.renderText(dst, fmt.Sprintf("Orbit speed    %.1fx", h.speeds.Orbit), hudMargin+8, hudMargin+17, h.hudColor)
	h.renderText(dst, fmt.Sprintf("Rotation speed %.1fx", h.speeds.Rotation), hudMargin+8, hudMargin+17+lineHeight+4, h.hudColor)
	h.renderButton(dst, ActionOrbitDown, GlyphMinus)
	h.renderButton(dst, ActionOrbitUp, GlyphPlus)
	h.renderButton(dst, ActionRotationDown, GlyphMinus)
	h.renderButton(dst, ActionRotationUp, GlyphPlus)

	// Selected body
	if h.panel {
		r := h.panelRect()
		h.renderRect(dst, r, h.backdrop)
		x := int(r.Min.X) + 8
		y := int(r.Min.Y) + 17
		h.renderText(dst, h.info.Name, x, y, h.hudColor)
		for _, line := range h.info.Lines() {
			y += lineHeight
			h.renderText(dst, line, x, y, h.dimColor)
		}
		h.renderButton(dst, ActionClosePanel, GlyphClose)
	}

	// Help
	y := h.height - hudMargin - (len(helpLines)-1)*lineHeight
	for _, line := range helpLines {
		h.renderText(dst, line, hudMargin, y, h.dimColor)
		y += lineHeight
	}
}

// renderText draws text with its baseline at (x, y)
func (h *HUD) renderText(dst draw.Image, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: h.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// renderRect blends a filled rectangle
func (h *HUD) renderRect(dst draw.Image, r physics.Rect, c color.Color) {
	rect := image.Rect(int(r.Min.X), int(r.Min.Y), int(r.Min.X+r.Width), int(r.Min.Y+r.Height))
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

func (h *HUD) renderButton(dst draw.Image, a Action, g Glyph) {
	r, ok := h.buttons[a]
	if !ok {
		return
	}
	h.renderRect(dst, r, color.RGBA{60, 60, 60, 255})
	if h.assets == nil {
		return
	}
	img := h.assets.Glyph(g)
	if img == nil {
		return
	}
	inset := (buttonSize - glyphSize) / 2
	at := image.Pt(int(r.Min.X)+inset, int(r.Min.Y)+inset)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())}, img, image.Point{}, draw.Over)
}
