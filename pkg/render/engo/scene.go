// pkg/render/engo/scene.go
package engo

import (
	"context"
	"errors"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/orbit"
)

// Session is the part of the simulation the window drives
type Session interface {
	Controller
	Resizer
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Tick() bool
	Speeds() orbit.Speeds
	Bus() *event.Bus
}

var _ Session = (*engine.Simulation)(nil)

// Options sizes and titles the window
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// FrameSystem advances the simulation once per engo update
type FrameSystem struct {
	session Session
	exit    func()
	done    bool
}

// Remove satisfies the ecs.System interface
func (fs *FrameSystem) Remove(basic ecs.BasicEntity) {}

// Update runs one frame and closes the window once the session has stopped
func (fs *FrameSystem) Update(dt float32) {
	if fs.done {
		return
	}
	if !fs.session.Tick() {
		fs.done = true
		fs.exit()
	}
}

// OrreryScene is the engo scene hosting one session
type OrreryScene struct {
	ctx      context.Context
	session  Session
	renderer *EngoRenderer
	assets   *AssetManager
	logger   *logging.Logger
	opts     Options

	camera *CameraSystem
	input  *InputSystem
	frame  *FrameSystem
	exited bool
}

// NewOrreryScene creates the scene. The session is started in Setup.
func NewOrreryScene(ctx context.Context, session Session, renderer *EngoRenderer, assets *AssetManager, opts Options, logger *logging.Logger) *OrreryScene {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &OrreryScene{
		ctx:      ctx,
		session:  session,
		renderer: renderer,
		assets:   assets,
		opts:     opts,
		logger:   logger.With("component", "engo_scene"),
	}
}

// Type returns the scene type (required by Engo)
func (s *OrreryScene) Type() string {
	return "OrreryScene"
}

// Preload is called before the scene starts (required by Engo)
func (s *OrreryScene) Preload() {
	if err := s.assets.LoadAssets(); err != nil {
		s.logger.Error(s.ctx, "HUD sprites unavailable", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (s *OrreryScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		s.logger.Error(s.ctx, "Unexpected engo updater", errors.New("updater is not an *ecs.World"))
		engo.Exit()
		return
	}

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)
	s.renderer.Attach(renderSystem)

	if err := s.session.Start(s.ctx); err != nil {
		s.logger.Error(s.ctx, "Failed to start simulation", err)
		engo.Exit()
		return
	}

	s.systems(engo.Mailbox, engo.Exit)
	world.AddSystem(s.camera)
	world.AddSystem(s.input)
	world.AddSystem(s.frame)
}

// systems builds the scene's own systems and hooks them to the session
func (s *OrreryScene) systems(mb mailbox, exit func()) {
	hud := s.renderer.HUD()
	if hud != nil {
		hud.SetSpeeds(s.session.Speeds())
		hud.Subscribe(s.session.Bus())
		hud.Layout(s.opts.Width, s.opts.Height)
	}

	s.camera = NewCameraSystem(s.session, hud, s.opts.Width, s.opts.Height)
	s.camera.Attach(mb)
	s.input = NewInputSystem(s.session, hud)
	s.frame = &FrameSystem{session: s.session, exit: exit}
}

// Exit is called when the scene is exiting (required by Engo). Listeners
// go first, then the session, then the GPU texture.
func (s *OrreryScene) Exit() {
	if s.exited {
		return
	}
	s.exited = true

	if hud := s.renderer.HUD(); hud != nil {
		hud.Unsubscribe()
	}
	if s.camera != nil {
		s.camera.Detach()
	}
	if err := s.session.Shutdown(s.ctx); err != nil {
		s.logger.Warn(s.ctx, "Simulation shutdown incomplete", "error", err.Error())
	}
	s.renderer.Detach()
}

// Run opens the window and blocks until it is closed
func Run(scene *OrreryScene) {
	engo.Run(engo.RunOptions{
		Title:      scene.opts.Title,
		Width:      scene.opts.Width,
		Height:     scene.opts.Height,
		Fullscreen: scene.opts.Fullscreen,
		VSync:      scene.opts.VSync,
	}, scene)
}
