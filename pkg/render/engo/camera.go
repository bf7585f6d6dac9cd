// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
)

// Resizer accepts new viewport sizes. *engine.Simulation implements it.
type Resizer interface {
	Resize(width, height int) bool
}

// mailbox is the part of engo.Mailbox the camera system listens on
type mailbox interface {
	Listen(messageType string, handler engo.MessageHandler) engo.MessageHandlerId
	StopListen(messageType string, handlerID engo.MessageHandlerId)
}

type size struct {
	width, height int
}

// CameraSystem keeps the camera viewport and the HUD layout in step with
// the window. Resize messages are queued and applied at the next Update.
type CameraSystem struct {
	resizer  Resizer
	hud      *HUD
	mailbox  mailbox
	listener engo.MessageHandlerId
	pending  *size
	attached bool
}

// NewCameraSystem creates a camera system for a window of the given size
func NewCameraSystem(resizer Resizer, hud *HUD, width, height int) *CameraSystem {
	return &CameraSystem{
		resizer: resizer,
		hud:     hud,
		pending: &size{width, height},
	}
}

// Attach starts listening for window resizes on mb
func (cs *CameraSystem) Attach(mb mailbox) {
	if cs.attached {
		return
	}
	cs.mailbox = mb
	cs.listener = mb.Listen(engo.WindowResizeMessage{}.Type(), func(msg engo.Message) {
		if m, ok := msg.(engo.WindowResizeMessage); ok {
			cs.pending = &size{m.NewWidth, m.NewHeight}
		}
	})
	cs.attached = true
}

// Detach stops listening. Calling it more than once is a no-op.
func (cs *CameraSystem) Detach() {
	if !cs.attached {
		return
	}
	cs.mailbox.StopListen(engo.WindowResizeMessage{}.Type(), cs.listener)
	cs.attached = false
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update applies the latest queued resize
func (cs *CameraSystem) Update(dt float32) {
	if cs.pending == nil {
		return
	}
	s := *cs.pending
	cs.pending = nil
	if !cs.resizer.Resize(s.width, s.height) {
		return
	}
	if cs.hud != nil {
		cs.hud.Layout(s.width, s.height)
	}
}
