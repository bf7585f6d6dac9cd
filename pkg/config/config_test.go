// pkg/config/config_test.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Window.Width", config.Window.Width, 1280},
		{"Window.Height", config.Window.Height, 720},
		{"Camera.FOV", config.Camera.FOV, 75.0},
		{"Camera.Near", config.Camera.Near, 0.1},
		{"Camera.Far", config.Camera.Far, 10000.0},
		{"Camera.Position", config.Camera.Position, [3]float64{0, 200, 500}},
		{"Controls.DampingFactor", config.Controls.DampingFactor, 0.05},
		{"Controls.MinDistance", config.Controls.MinDistance, 100.0},
		{"Controls.MaxDistance", config.Controls.MaxDistance, 1000.0},
		{"Controls.RotateSpeed", config.Controls.RotateSpeed, 0.5},
		{"Controls.ZoomSpeed", config.Controls.ZoomSpeed, 0.5},
		{"Controls.PanSpeed", config.Controls.PanSpeed, 0.5},
		{"Simulation.OrbitSpeed", config.Simulation.OrbitSpeed, 1.0},
		{"Simulation.RotationSpeed", config.Simulation.RotationSpeed, 1.0},
		{"Simulation.PeriodScaled", config.Simulation.PeriodScaled, false},
		{"Simulation.ScaleFactor", config.Simulation.ScaleFactor, 0.2},
		{"Simulation.DisplayScale", config.Simulation.DisplayScale, 10.0},
		{"Simulation.SunRadius", config.Simulation.SunRadius, 20.0},
		{"Simulation.OrbitSegments", config.Simulation.OrbitSegments, 128},
		{"Simulation.StarCount", config.Simulation.StarCount, 5000},
		{"Simulation.StarFieldSize", config.Simulation.StarFieldSize, 2000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if err := Validate(config); err != nil {
		t.Errorf("DefaultConfig() does not validate: %v", err)
	}
}

func TestLoadConfig_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orrery.json")

	data := `{
		"window": {"title": "Test", "width": 800, "height": 600},
		"simulation": {"orbitSpeed": 2.5, "starCount": 100},
		"assets": {"breakerTimeout": "45s"}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Window.Title != "Test" || config.Window.Width != 800 || config.Window.Height != 600 {
		t.Errorf("window = %+v", config.Window)
	}
	if config.Simulation.OrbitSpeed != 2.5 {
		t.Errorf("OrbitSpeed = %v, want 2.5", config.Simulation.OrbitSpeed)
	}
	if config.Simulation.StarCount != 100 {
		t.Errorf("StarCount = %d, want 100", config.Simulation.StarCount)
	}
	if time.Duration(config.Assets.BreakerTimeout) != 45*time.Second {
		t.Errorf("BreakerTimeout = %v, want 45s", time.Duration(config.Assets.BreakerTimeout))
	}

	// Sections absent from the file keep their defaults.
	if config.Controls.MinDistance != 100 || config.Camera.FOV != 75 {
		t.Errorf("defaults lost: controls=%+v camera=%+v", config.Controls, config.Camera)
	}
	if config.Simulation.ScaleFactor != 0.2 {
		t.Errorf("ScaleFactor = %v, want default 0.2", config.Simulation.ScaleFactor)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("LoadConfig() expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"malformed", `{"window": `, "failed to parse config file"},
		{"bad duration", `{"assets": {"loadTimeout": "soon"}}`, "failed to parse config file"},
		{"duration not a string", `{"assets": {"loadTimeout": 5}}`, "failed to parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"simulation": {"orbitSpeed": 9}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("LoadConfig() error = %v, want *ValidationError", err)
	}
	if verr.Field != "Simulation.OrbitSpeed" {
		t.Errorf("Field = %q, want Simulation.OrbitSpeed", verr.Field)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.json")
	config := DefaultConfig()
	config.Simulation.Seed = 42
	config.Simulation.PeriodScaled = true

	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var generic map[string]map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("saved file is not JSON: %v", err)
	}
	if generic["assets"]["breakerTimeout"] != "30s" {
		t.Errorf("breakerTimeout encoded as %v, want \"30s\"", generic["assets"]["breakerTimeout"])
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Simulation.Seed != 42 || !loaded.Simulation.PeriodScaled {
		t.Errorf("simulation = %+v", loaded.Simulation)
	}
}

func TestSaveConfig_InvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "config.json")
	if err := SaveConfig(DefaultConfig(), path); err == nil {
		t.Error("SaveConfig() expected error for invalid path")
	}
}
