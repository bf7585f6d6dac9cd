// Package engine runs an orrery session: it owns the scene, camera, speeds
// and selection, drives them once per frame and turns pointer input into
// selection events.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/opd-ai/go-orrery/pkg/assets"
	"github.com/opd-ai/go-orrery/pkg/camera"
	"github.com/opd-ai/go-orrery/pkg/catalog"
	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/health"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/metrics"
	"github.com/opd-ai/go-orrery/pkg/orbit"
	"github.com/opd-ai/go-orrery/pkg/picking"
	"github.com/opd-ai/go-orrery/pkg/resource"
	"github.com/opd-ai/go-orrery/pkg/scene"
)

var (
	// ErrAlreadyStarted is returned by a second Start
	ErrAlreadyStarted = errors.New("simulation already started")
	// ErrNotRunning is returned when an operation needs a started session
	ErrNotRunning = errors.New("simulation is not running")
)

// NoSelection is the selected index when no body is selected
const NoSelection = -1

// FrameView is the read-only state handed to a Drawer each frame
type FrameView struct {
	Scene    *scene.State
	Camera   *camera.Controls
	Speeds   orbit.Speeds
	Selected int
	Frame    uint64
}

// Drawer presents one frame
type Drawer interface {
	Draw(v FrameView) error
}

// Options configures a Simulation
type Options struct {
	Config   *config.Config
	Catalog  *catalog.Catalog
	Drawer   Drawer
	Clock    Clock
	Logger   *logging.Logger
	Registry prometheus.Registerer
	Rand     *rand.Rand // overrides Config.Simulation.Seed
}

// Simulation is the coordinator of one session
type Simulation struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	bus      *event.Bus
	logger   *logging.Logger
	metrics  *metrics.Collector
	drawer   Drawer
	rng      *rand.Rand
	animator orbit.Animator

	scene     *scene.State
	camera    *camera.Controls
	resolver  *picking.Resolver
	driver    *Driver
	loader    *assets.Loader
	resources *resource.Manager
	subs      event.Group
	health    *health.HealthChecker

	speeds   orbit.Speeds
	selected int

	viewportWarn rate.Sometimes
	ctx          context.Context

	mu       sync.Mutex
	started  bool
	shutdown bool
}

// NewSimulation validates the configuration and prepares a session. Nothing
// is built until Start.
func NewSimulation(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, logging.WrapError(err, "invalid configuration")
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	rng := opts.Rand
	if rng == nil {
		rng = newRand(cfg.Simulation.Seed)
	}

	cam := camera.New(cameraSettings(cfg), vec3(cfg.Camera.Position), vec3(cfg.Camera.Target))
	cam.SetViewport(cfg.Window.Width, cfg.Window.Height)

	resources := resource.NewManager(cfg.Assets.MaxConcurrentLoads, time.Duration(cfg.Assets.LoadTimeout), logger)

	s := &Simulation{
		cfg:       cfg,
		catalog:   cat,
		bus:       event.NewEventBus(),
		logger:    logger.With("component", "simulation"),
		metrics:   metrics.NewCollector(reg),
		drawer:    opts.Drawer,
		rng:       rng,
		animator:  orbit.Animator{PeriodScaled: cfg.Simulation.PeriodScaled},
		camera:    cam,
		resolver:  picking.NewResolver(cam),
		resources: resources,
		loader:    assets.NewLoader(assetOptions(cfg), resources, logger),
		selected:  NoSelection,
		ctx:       context.Background(),

		viewportWarn: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
	s.speeds.SetOrbit(cfg.Simulation.OrbitSpeed)
	s.speeds.SetRotation(cfg.Simulation.RotationSpeed)
	s.driver = NewDriver(opts.Clock, s.step, logger)
	s.health = s.healthChecks()
	return s, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

func vec3(v [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func cameraSettings(cfg *config.Config) camera.Settings {
	return camera.Settings{
		FOV:            cfg.Camera.FOV,
		Near:           cfg.Camera.Near,
		Far:            cfg.Camera.Far,
		DampingFactor:  cfg.Controls.DampingFactor,
		MinDistance:    cfg.Controls.MinDistance,
		MaxDistance:    cfg.Controls.MaxDistance,
		RotateSpeed:    cfg.Controls.RotateSpeed,
		ZoomSpeed:      cfg.Controls.ZoomSpeed,
		PanSpeed:       cfg.Controls.PanSpeed,
		ClickThreshold: cfg.Controls.ClickThreshold,
	}
}

func sceneOptions(cfg *config.Config) scene.Options {
	return scene.Options{
		ScaleFactor:   cfg.Simulation.ScaleFactor,
		DisplayScale:  cfg.Simulation.DisplayScale,
		SunRadius:     cfg.Simulation.SunRadius,
		OrbitSegments: cfg.Simulation.OrbitSegments,
		StarCount:     cfg.Simulation.StarCount,
		StarFieldSize: cfg.Simulation.StarFieldSize,
	}
}

func assetOptions(cfg *config.Config) assets.Options {
	return assets.Options{
		Dir:                cfg.Assets.TextureDir,
		TextureSize:        cfg.Assets.TextureSize,
		LoadTimeout:        time.Duration(cfg.Assets.LoadTimeout),
		BreakerMaxFailures: cfg.Assets.BreakerMaxFailures,
		BreakerTimeout:     time.Duration(cfg.Assets.BreakerTimeout),
		QueueSize:          cfg.Assets.MaxConcurrentLoads + 1,
		Workers:            cfg.Assets.MaxConcurrentLoads,
	}
}

// Start builds the scene, subscribes the session handlers, queues texture
// loads and starts the frame driver.
func (s *Simulation) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}

	if logging.GetSessionID(ctx) == "" {
		ctx = logging.WithSessionID(ctx, "")
	}

	st, err := scene.Build(s.catalog.Bodies(), sceneOptions(s.cfg), s.rng)
	if err != nil {
		s.logger.Error(ctx, "Scene build failed", err)
		return logging.WrapError(err, "build scene")
	}
	s.scene = st
	s.ctx = ctx
	s.started = true

	s.subscribe()

	if n, err := s.loader.LoadAll(ctx, st); err != nil {
		s.logger.Warn(ctx, "Texture loading incomplete, using flat colors",
			"started", n,
			"error", err.Error(),
		)
	}

	s.driver.Start()
	s.logger.Info(ctx, "Simulation started",
		"bodies", st.Len(),
		"stars", s.cfg.Simulation.StarCount,
		"period_scaled", s.cfg.Simulation.PeriodScaled,
	)
	s.bus.Publish(&event.BaseEvent{EventType: event.SceneBuilt, Source: s})
	return nil
}

// subscribe registers the session's own handlers. Each handle is released
// exactly once by Shutdown.
func (s *Simulation) subscribe() {
	s.subs.Add(s.bus.Subscribe(event.BodySelected, func(e event.Event) {
		sel, ok := e.(*event.SelectionEvent)
		if !ok {
			return
		}
		s.metrics.RecordSelection(sel.Body.Name)
		s.logger.Info(s.ctx, "Body selected", "index", sel.Index, "name", sel.Body.Name)
	}))
	s.subs.Add(s.bus.Subscribe(event.AssetLoaded, func(e event.Event) {
		if a, ok := e.(*event.AssetEvent); ok {
			s.logger.Debug(s.ctx, "Texture applied", "index", a.Index, "key", a.Key)
		}
	}))
	s.subs.Add(s.bus.Subscribe(event.AssetLoadFailed, func(e event.Event) {
		if a, ok := e.(*event.AssetEvent); ok {
			s.logger.Warn(s.ctx, "Texture unavailable, keeping flat color",
				"index", a.Index,
				"key", a.Key,
				"error", a.Err.Error(),
			)
		}
	}))
}

// Shutdown logs the session health, then releases the session: handlers
// first, then the frame driver, then pending loads, and finally the scene
// resources. Safe to call more
// than once and before Start.
func (s *Simulation) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return nil
	}
	s.shutdown = true
	started := s.started
	s.mu.Unlock()

	if started {
		s.logHealth(ctx)
	}
	s.subs.CancelAll()
	s.driver.Stop()
	err := s.resources.Shutdown(ctx)
	if err != nil {
		s.logger.Warn(s.ctx, "Texture loads did not finish before teardown", "error", err.Error())
	}

	if !started {
		return err
	}
	s.scene.Teardown()
	s.logger.Info(s.ctx, "Simulation shut down", "frames", s.driver.Frames())
	s.bus.Publish(&event.BaseEvent{EventType: event.SceneTornDown, Source: s})
	return err
}

// step is the body of one frame
func (s *Simulation) step(elapsed float64) {
	s.drainAssets()

	dt := s.animator.Advance(s.scene, s.speeds, elapsed)
	s.camera.Update(dt)
	s.metrics.RecordFrame(dt, elapsed > orbit.MaxStep)

	if s.drawer == nil {
		return
	}
	if err := s.drawer.Draw(s.View()); err != nil {
		s.logger.Error(s.ctx, "Draw failed", err, "frame", s.driver.Frames())
	}
}

// drainAssets publishes finished texture loads on the frame thread
func (s *Simulation) drainAssets() {
	for _, r := range s.loader.Poll() {
		result := metrics.AssetLoaded
		if r.Err != nil {
			result = metrics.AssetFailed
		}
		s.metrics.RecordAssetLoad(r.Key, result, r.Duration)
		s.bus.Publish(event.NewAssetEvent(s, r.Index, r.Key, r.Err))
	}
}

// Tick runs one frame. Windowed shells call it from their update callback.
func (s *Simulation) Tick() bool {
	return s.driver.Tick()
}

// Run drives frames on a ticker until ctx is done or the frame limit is hit.
func (s *Simulation) Run(ctx context.Context, interval time.Duration, frames uint64) error {
	if !s.driver.Running() {
		return ErrNotRunning
	}
	s.driver.SetFrameLimit(frames)
	return s.driver.Run(ctx, interval)
}

// View returns the state a Drawer needs for the current frame
func (s *Simulation) View() FrameView {
	return FrameView{
		Scene:    s.scene,
		Camera:   s.camera,
		Speeds:   s.speeds,
		Selected: s.selected,
		Frame:    s.driver.Frames(),
	}
}

// PointerDown starts a rotate or pan gesture
func (s *Simulation) PointerDown(b camera.Button, x, y float64) {
	s.camera.PointerDown(b, x, y)
}

// PointerMove feeds a gesture in progress
func (s *Simulation) PointerMove(x, y float64) {
	s.camera.PointerMove(x, y)
}

// PointerUp ends a gesture. A primary release that did not drag is a click
// and is resolved to a body. Returns the selected index when a body was hit.
func (s *Simulation) PointerUp(b camera.Button, x, y float64) (int, bool) {
	if !s.camera.PointerUp(b, x, y) || b != camera.ButtonPrimary {
		if s.camera.DragOccurred() {
			s.metrics.RecordPick(metrics.PickDrag)
		}
		return NoSelection, false
	}
	return s.Click(x, y)
}

// Wheel zooms the camera; positive steps move closer
func (s *Simulation) Wheel(steps float64) {
	s.camera.Zoom(steps)
}

// Click selects the body under pixel (x, y). A miss keeps the current
// selection.
func (s *Simulation) Click(x, y float64) (int, bool) {
	hit, ok := s.resolver.Pick(s.scene, x, y)
	if !ok {
		s.metrics.RecordPick(metrics.PickMiss)
		return NoSelection, false
	}
	s.metrics.RecordPick(metrics.PickHit)
	if err := s.Select(hit.Index); err != nil {
		s.logger.Error(s.ctx, "Picked body is not in the catalog", err, "index", hit.Index)
		return NoSelection, false
	}
	return hit.Index, true
}

// Select makes body i the selection and publishes BodySelected
func (s *Simulation) Select(i int) error {
	body, ok := s.catalog.At(i)
	if !ok {
		return fmt.Errorf("select body %d: %w", i, catalog.ErrUnknownBody)
	}
	s.selected = i
	s.bus.Publish(event.NewSelectionEvent(s, i, body))
	return nil
}

// ClearSelection drops the selection and publishes SelectionCleared. It does
// nothing when no body is selected.
func (s *Simulation) ClearSelection() {
	if s.selected == NoSelection {
		return
	}
	s.selected = NoSelection
	s.bus.Publish(event.NewSelectionClearedEvent(s))
}

// Selected returns the selected body, if any
func (s *Simulation) Selected() (catalog.Body, int, bool) {
	if s.selected == NoSelection {
		return catalog.Body{}, NoSelection, false
	}
	body, ok := s.catalog.At(s.selected)
	return body, s.selected, ok
}

// SetOrbitSpeed sets the orbit multiplier, clamped to [0, 5], and returns
// the value applied.
func (s *Simulation) SetOrbitSpeed(v float64) float64 {
	v = s.speeds.SetOrbit(v)
	s.publishSpeeds()
	return v
}

// SetRotationSpeed sets the spin multiplier, clamped to [0, 5], and returns
// the value applied.
func (s *Simulation) SetRotationSpeed(v float64) float64 {
	v = s.speeds.SetRotation(v)
	s.publishSpeeds()
	return v
}

// StepOrbitSpeed moves the orbit multiplier by n slider steps
func (s *Simulation) StepOrbitSpeed(n int) float64 {
	return s.SetOrbitSpeed(orbit.Step(s.speeds.Orbit, n))
}

// StepRotationSpeed moves the spin multiplier by n slider steps
func (s *Simulation) StepRotationSpeed(n int) float64 {
	return s.SetRotationSpeed(orbit.Step(s.speeds.Rotation, n))
}

func (s *Simulation) publishSpeeds() {
	s.bus.Publish(event.NewSpeedEvent(s, s.speeds.Orbit, s.speeds.Rotation))
}

// Speeds returns the current multipliers
func (s *Simulation) Speeds() orbit.Speeds {
	return s.speeds
}

// Resize updates the viewport. Sizes without area are ignored and reported
// at most every few seconds.
func (s *Simulation) Resize(width, height int) bool {
	if !s.camera.SetViewport(width, height) {
		s.metrics.RecordViewportRejected()
		s.viewportWarn.Do(func() {
			s.logger.Warn(s.ctx, "Ignoring resize to a zero-area viewport",
				"width", width,
				"height", height,
			)
		})
		return false
	}
	s.bus.Publish(event.NewViewportEvent(s, width, height))
	return true
}

// Bus returns the session event bus
func (s *Simulation) Bus() *event.Bus {
	return s.bus
}

// Catalog returns the body catalog
func (s *Simulation) Catalog() *catalog.Catalog {
	return s.catalog
}

// Scene returns the live scene, nil before Start
func (s *Simulation) Scene() *scene.State {
	return s.scene
}

// Camera returns the viewport controller
func (s *Simulation) Camera() *camera.Controls {
	return s.camera
}

// Driver returns the frame driver
func (s *Simulation) Driver() *Driver {
	return s.driver
}

// Context returns the session context carrying the session ID
func (s *Simulation) Context() context.Context {
	return s.ctx
}
