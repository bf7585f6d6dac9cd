// cmd/orrery/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opd-ai/go-orrery/pkg/catalog"
	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/orbit"
	"github.com/opd-ai/go-orrery/pkg/render"
	engorender "github.com/opd-ai/go-orrery/pkg/render/engo"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithSessionID(context.Background(), "")

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	renderer := flag.String("renderer", "engo", "Renderer type: 'engo', 'terminal' or 'null'")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (Engo only)")
	width := flag.Int("width", 0, "Window width, 0 keeps the configured value")
	height := flag.Int("height", 0, "Window height, 0 keeps the configured value")
	frames := flag.Uint64("frames", 0, "Stop after this many frames, 0 runs until interrupted")
	seed := flag.Int64("seed", 0, "Seed for initial orbit angles and stars, 0 keeps the configured value")
	interval := flag.Duration("interval", time.Second/30, "Frame interval (terminal and null only)")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		os.Exit(1)
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *fullscreen {
		cfg.Window.Fullscreen = true
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *renderer {
	case "engo":
		err = runEngo(ctx, logger, cfg, *frames)
	case "terminal":
		tr := render.NewTerminalRenderer(os.Stdout, 78, 32, 0)
		tr.SetClearScreen(true)
		err = runHeadless(ctx, logger, cfg, tr, *interval, *frames)
	case "null":
		err = runHeadless(ctx, logger, cfg, render.NewNullRenderer(logger), *interval, *frames)
	default:
		logger.Error(ctx, "Unknown renderer", nil, "renderer", *renderer)
		os.Exit(2)
	}
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration file, falling back to the defaults when
// it does not exist, and applies environment overrides.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.Config, error) {
	var cfg *config.Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", path,
			)
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		return nil, err
	}
	return cfg, nil
}

func newSimulation(ctx context.Context, logger *logging.Logger, cfg *config.Config, drawer engine.Drawer) (*engine.Simulation, error) {
	sim, err := engine.NewSimulation(engine.Options{
		Config:   cfg,
		Catalog:  catalog.Default(),
		Drawer:   drawer,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		logger.Error(ctx, "Invalid configuration", err)
		return nil, err
	}
	return sim, nil
}

// runHeadless drives the simulation on a ticker until interrupted or the
// frame limit is reached.
func runHeadless(ctx context.Context, logger *logging.Logger, cfg *config.Config, drawer engine.Drawer, interval time.Duration, frames uint64) error {
	sim, err := newSimulation(ctx, logger, cfg, drawer)
	if err != nil {
		return err
	}
	if err := sim.Start(ctx); err != nil {
		logger.Error(ctx, "Failed to start simulation", err)
		return err
	}

	runErr := sim.Run(ctx, interval, frames)
	if errors.Is(runErr, context.Canceled) {
		logger.Info(ctx, "Interrupted, shutting down")
		runErr = nil
	}

	shutdown(ctx, logger, sim)
	if runErr != nil {
		logger.Error(ctx, "Frame loop failed", runErr)
	}
	return runErr
}

// shutdown tears the session down, bounded by a timeout
func shutdown(ctx context.Context, logger *logging.Logger, sim *engine.Simulation) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sim.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "Shutdown incomplete", "error", err.Error())
	}
}

// runEngo opens the window and blocks until it closes
func runEngo(ctx context.Context, logger *logging.Logger, cfg *config.Config, frames uint64) error {
	assets := engorender.NewAssetManager()
	hud := engorender.NewHUD(orbit.Speeds{
		Orbit:    cfg.Simulation.OrbitSpeed,
		Rotation: cfg.Simulation.RotationSpeed,
	}, assets)
	renderer := engorender.NewEngoRenderer(hud)

	sim, err := newSimulation(ctx, logger, cfg, renderer)
	if err != nil {
		return err
	}
	sim.Driver().SetFrameLimit(frames)

	scene := engorender.NewOrreryScene(ctx, sim, renderer, assets, engorender.Options{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger)

	closed := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Interrupted, closing window")
			engo.Exit()
		case <-closed:
		}
	}()

	engorender.Run(scene)
	close(closed)

	shutdown(ctx, logger, sim)
	return nil
}
