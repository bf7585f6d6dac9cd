// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config contains configuration for an orrery session
type Config struct {
	Window     WindowConfig     `json:"window"`
	Camera     CameraConfig     `json:"camera"`
	Controls   ControlsConfig   `json:"controls"`
	Simulation SimulationConfig `json:"simulation"`
	Assets     AssetsConfig     `json:"assets"`
}

// WindowConfig contains draw-surface configuration
type WindowConfig struct {
	Title      string `json:"title"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Fullscreen bool   `json:"fullscreen"`
	VSync      bool   `json:"vsync"`
}

// CameraConfig contains the perspective projection and initial pose
type CameraConfig struct {
	FOV      float64    `json:"fov"` // vertical, degrees
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
}

// ControlsConfig contains orbit/pan/zoom sensitivity and limits
type ControlsConfig struct {
	DampingFactor  float64 `json:"dampingFactor"`
	MinDistance    float64 `json:"minDistance"`
	MaxDistance    float64 `json:"maxDistance"`
	RotateSpeed    float64 `json:"rotateSpeed"`
	ZoomSpeed      float64 `json:"zoomSpeed"`
	PanSpeed       float64 `json:"panSpeed"`
	ClickThreshold float64 `json:"clickThreshold"` // pixels
}

// SimulationConfig contains animation and scene-construction parameters
type SimulationConfig struct {
	OrbitSpeed    float64 `json:"orbitSpeed"`
	RotationSpeed float64 `json:"rotationSpeed"`
	PeriodScaled  bool    `json:"periodScaled"`
	ScaleFactor   float64 `json:"scaleFactor"`
	DisplayScale  float64 `json:"displayScale"`
	SunRadius     float64 `json:"sunRadius"`
	OrbitSegments int     `json:"orbitSegments"`
	StarCount     int     `json:"starCount"`
	StarFieldSize float64 `json:"starFieldSize"`
	Seed          int64   `json:"seed"` // 0 picks a time-based seed
}

// AssetsConfig contains surface texture loading parameters
type AssetsConfig struct {
	TextureDir         string   `json:"textureDir"`
	TextureSize        int      `json:"textureSize"`
	LoadTimeout        Duration `json:"loadTimeout"`
	MaxConcurrentLoads int      `json:"maxConcurrentLoads"`
	BreakerMaxFailures int      `json:"breakerMaxFailures"`
	BreakerTimeout     Duration `json:"breakerTimeout"`
}

// Duration is a time.Duration encoded as a Go duration string in JSON.
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// LoadConfig loads a configuration from a file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Go Orrery",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      10000,
			Position: [3]float64{0, 200, 500},
			Target:   [3]float64{0, 0, 0},
		},
		Controls: ControlsConfig{
			DampingFactor:  0.05,
			MinDistance:    100,
			MaxDistance:    1000,
			RotateSpeed:    0.5,
			ZoomSpeed:      0.5,
			PanSpeed:       0.5,
			ClickThreshold: 4,
		},
		Simulation: SimulationConfig{
			OrbitSpeed:    1,
			RotationSpeed: 1,
			ScaleFactor:   0.2,
			DisplayScale:  10,
			SunRadius:     20,
			OrbitSegments: 128,
			StarCount:     5000,
			StarFieldSize: 2000,
		},
		Assets: AssetsConfig{
			TextureDir:         "assets/textures",
			TextureSize:        256,
			LoadTimeout:        Duration(5 * time.Second),
			MaxConcurrentLoads: 8,
			BreakerMaxFailures: 3,
			BreakerTimeout:     Duration(30 * time.Second),
		},
	}
}
