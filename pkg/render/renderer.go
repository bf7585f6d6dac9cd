// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

// NullRenderer is a Drawer that only logs what it would draw.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{
		logger: logger.With("component", "null_renderer"),
	}
}

// Draw implements engine.Drawer.
func (d *NullRenderer) Draw(v engine.FrameView) error {
	ctx := context.Background()
	if !v.Scene.Live() {
		d.logger.Debug(ctx, "Draw called without a live scene", "frame", v.Frame)
		return nil
	}
	d.logger.Debug(ctx, "Draw called",
		"frame", v.Frame,
		"bodies", v.Scene.Len(),
		"selected", v.Selected,
		"camera_distance", v.Camera.Distance(),
	)
	return nil
}

var _ engine.Drawer = (*NullRenderer)(nil)
var _ engine.Drawer = (*TerminalRenderer)(nil)
