// pkg/render/engo/renderer.go
package engo

import (
	"image"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

// EngoRenderer implements engine.Drawer. Each frame is rasterized with the
// HUD on top and shown as one full-window sprite.
type EngoRenderer struct {
	raster       *Rasterizer
	hud          *HUD
	renderSystem *common.RenderSystem
	upload       func(img *image.NRGBA) common.Drawable

	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
	added  bool
}

// NewEngoRenderer creates a new Engo-based renderer
func NewEngoRenderer(hud *HUD) *EngoRenderer {
	return &EngoRenderer{
		raster: NewRasterizer(),
		hud:    hud,
		upload: convertToEngoTexture,
		basic:  ecs.NewBasic(),
	}
}

// Attach makes the renderer show its frames through rs. Until then Draw
// only rasterizes.
func (r *EngoRenderer) Attach(rs *common.RenderSystem) {
	r.renderSystem = rs
}

// Detach removes the frame sprite and releases its texture
func (r *EngoRenderer) Detach() {
	if r.added {
		r.renderSystem.Remove(r.basic)
		r.added = false
	}
	if r.render.Drawable != nil {
		r.render.Drawable.Close()
		r.render.Drawable = nil
	}
	r.renderSystem = nil
}

// HUD returns the overlay drawn on every frame
func (r *EngoRenderer) HUD() *HUD {
	return r.hud
}

// Frame returns the last rasterized frame
func (r *EngoRenderer) Frame() *image.NRGBA {
	return r.raster.Frame()
}

// Draw implements engine.Drawer
func (r *EngoRenderer) Draw(v engine.FrameView) error {
	if !v.Scene.Live() {
		return scene.ErrTornDown
	}

	img := r.raster.Draw(v)
	if r.hud != nil {
		r.hud.Draw(img)
	}
	if r.renderSystem == nil {
		return nil
	}

	drawable := r.upload(img)
	if r.render.Drawable != nil {
		r.render.Drawable.Close()
	}
	r.render.Drawable = drawable
	r.space = common.SpaceComponent{
		Position: engo.Point{X: 0, Y: 0},
		Width:    float32(img.Bounds().Dx()),
		Height:   float32(img.Bounds().Dy()),
	}

	if !r.added {
		r.renderSystem.Add(&r.basic, &r.render, &r.space)
		r.added = true
	}
	return nil
}

var _ engine.Drawer = (*EngoRenderer)(nil)
