package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-orrery/pkg/catalog"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/physics"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// Glyphs used by the terminal view
const (
	glyphEmpty    = ' '
	glyphOrbit    = '.'
	glyphSun      = 'O'
	glyphSelected = '@'
)

// TerminalRenderer draws a top-down ASCII view of the orbital plane.
// World X maps to columns and world Z to rows.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float64 // world units per character; <= 0 fits the outermost orbit
	centerPos physics.Vector2D
	out       io.Writer
	clear     bool
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    out,
	}
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// SetClearScreen makes Present reset the terminal before each frame
func (r *TerminalRenderer) SetClearScreen(on bool) {
	r.clear = on
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2))
	screenY := int(math.Floor((pos.Y-r.centerPos.Y)/r.scale + float64(r.height)/2))
	return screenX, screenY
}

func (r *TerminalRenderer) plot(pos physics.Vector2D, glyph rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = glyph
	}
}

// fit picks a scale that keeps the outermost orbit inside the buffer
func (r *TerminalRenderer) fit(s *scene.State) {
	maxRadius := 0.0
	for i := range s.Bodies {
		maxRadius = math.Max(maxRadius, s.Bodies[i].OrbitRadius)
	}
	half := float64(min(r.width, r.height))/2 - 1
	if maxRadius == 0 || half < 1 {
		r.scale = 1
		return
	}
	r.scale = maxRadius / half
}

// Clear blanks the buffer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = glyphEmpty
		}
	}
}

// Draw implements engine.Drawer
func (r *TerminalRenderer) Draw(v engine.FrameView) error {
	if !v.Scene.Live() {
		return scene.ErrTornDown
	}
	if r.scale <= 0 {
		r.fit(v.Scene)
	}

	r.Clear()
	for i := range v.Scene.Bodies {
		for _, p := range v.Scene.Bodies[i].Orbit.Geometry.Points {
			r.plot(physics.Vector2D{X: p.X(), Y: p.Z()}, glyphOrbit)
		}
	}
	for i := range v.Scene.Bodies {
		b := &v.Scene.Bodies[i]
		glyph := bodyGlyph(i)
		if i == v.Selected {
			glyph = glyphSelected
		}
		r.plot(physics.Vector2D{X: b.Mesh.Position.X(), Y: b.Mesh.Position.Z()}, glyph)
	}
	// The sun covers the innermost orbits at any terminal scale.
	r.plot(physics.Vector2D{}, glyphSun)

	return r.Present(statusLines(v))
}

// bodyGlyph labels bodies by their one-based catalog position
func bodyGlyph(i int) rune {
	if i < 9 {
		return rune('1' + i)
	}
	return '*'
}

func statusLines(v engine.FrameView) []string {
	lines := []string{
		fmt.Sprintf("frame %d  orbit %.1fx  rotation %.1fx", v.Frame, v.Speeds.Orbit, v.Speeds.Rotation),
	}

	legend := make([]string, 0, len(v.Scene.Bodies))
	for i := range v.Scene.Bodies {
		legend = append(legend, fmt.Sprintf("%c %s", bodyGlyph(i), v.Scene.Bodies[i].Body.Name))
	}
	lines = append(lines, strings.Join(legend, "  "))

	if v.Selected >= 0 && v.Selected < len(v.Scene.Bodies) {
		info := catalog.FormatInfo(v.Scene.Bodies[v.Selected].Body)
		lines = append(lines, "@ "+info.Name)
		lines = append(lines, info.Lines()...)
	}
	return lines
}

// Present writes the buffer inside a border, followed by status lines
func (r *TerminalRenderer) Present(status []string) error {
	var sb strings.Builder
	if r.clear {
		sb.WriteString("\033[H\033[2J")
	}

	// Draw border
	sb.WriteString("+" + strings.Repeat("-", r.width) + "+\n")

	// Draw buffer
	for y := range r.buffer {
		sb.WriteString("|")
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}

	sb.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	for _, line := range status {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(r.out, sb.String())
	return err
}
