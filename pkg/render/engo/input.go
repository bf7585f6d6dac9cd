// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-orrery/pkg/camera"
)

// Controller receives the input the window produces. *engine.Simulation
// implements it.
type Controller interface {
	PointerDown(b camera.Button, x, y float64)
	PointerMove(x, y float64)
	PointerUp(b camera.Button, x, y float64) (int, bool)
	Wheel(steps float64)
	StepOrbitSpeed(n int) float64
	StepRotationSpeed(n int) float64
	ClearSelection()
}

// mouseState is one frame of mouse input
type mouseState struct {
	X, Y    float64
	Action  engo.Action
	Button  engo.MouseButton
	ScrollY float64
}

func readEngoMouse() mouseState {
	m := engo.Input.Mouse
	return mouseState{
		X:       float64(m.X),
		Y:       float64(m.Y),
		Action:  m.Action,
		Button:  m.Button,
		ScrollY: float64(m.ScrollY),
	}
}

// InputSystem turns mouse input into HUD actions and camera gestures. A
// press that lands on the HUD is consumed by it until the release.
type InputSystem struct {
	ctrl     Controller
	hud      *HUD
	read     func() mouseState
	captured bool
}

// NewInputSystem creates a new input system
func NewInputSystem(ctrl Controller, hud *HUD) *InputSystem {
	return &InputSystem{
		ctrl: ctrl,
		hud:  hud,
		read: readEngoMouse,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update processes the mouse state of the current frame
func (is *InputSystem) Update(dt float32) {
	is.handle(is.read())
}

func (is *InputSystem) handle(m mouseState) {
	if m.ScrollY != 0 {
		is.ctrl.Wheel(m.ScrollY)
	}

	switch m.Action {
	case engo.Press:
		if is.hud != nil && is.hud.Covers(m.X, m.Y) {
			is.captured = true
			is.apply(is.hud.HitTest(m.X, m.Y))
			return
		}
		is.ctrl.PointerDown(cameraButton(m.Button), m.X, m.Y)
	case engo.Move:
		if !is.captured {
			is.ctrl.PointerMove(m.X, m.Y)
		}
	case engo.Release:
		if is.captured {
			is.captured = false
			return
		}
		is.ctrl.PointerUp(cameraButton(m.Button), m.X, m.Y)
	}
}

// apply carries out a HUD button action
func (is *InputSystem) apply(a Action) {
	switch a {
	case ActionOrbitDown:
		is.ctrl.StepOrbitSpeed(-1)
	case ActionOrbitUp:
		is.ctrl.StepOrbitSpeed(1)
	case ActionRotationDown:
		is.ctrl.StepRotationSpeed(-1)
	case ActionRotationUp:
		is.ctrl.StepRotationSpeed(1)
	case ActionClosePanel:
		is.ctrl.ClearSelection()
	}
}

func cameraButton(b engo.MouseButton) camera.Button {
	switch b {
	case engo.MouseButtonLeft:
		return camera.ButtonPrimary
	case engo.MouseButtonRight:
		return camera.ButtonSecondary
	default:
		return camera.ButtonNone
	}
}
