// pkg/config/env_config.go
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// Environment variables recognised by ApplyEnvironmentOverrides
const (
	EnvWidth           = "ORRERY_WIDTH"
	EnvHeight          = "ORRERY_HEIGHT"
	EnvFullscreen      = "ORRERY_FULLSCREEN"
	EnvOrbitSpeed      = "ORRERY_ORBIT_SPEED"
	EnvRotationSpeed   = "ORRERY_ROTATION_SPEED"
	EnvPeriodScaled    = "ORRERY_PERIOD_SCALED"
	EnvStarCount       = "ORRERY_STAR_COUNT"
	EnvSeed            = "ORRERY_SEED"
	EnvTextureDir      = "ORRERY_TEXTURE_DIR"
	EnvLoadTimeout     = "ORRERY_LOAD_TIMEOUT"
	EnvBreakerTimeout  = "ORRERY_BREAKER_TIMEOUT"
	EnvBreakerFailures = "ORRERY_BREAKER_MAX_FAILURES"
)

// MaxSpeed bounds both simulation speed multipliers.
const MaxSpeed = 5.0

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

// ApplyEnvironmentOverrides applies ORRERY_* environment variables to config
// and validates the result.
func ApplyEnvironmentOverrides(config *Config) error {
	if config == nil {
		return &ValidationError{Field: "Config", Value: nil, Message: "config is nil"}
	}

	config.Window.Width = getEnvAsIntOrDefault(EnvWidth, config.Window.Width)
	config.Window.Height = getEnvAsIntOrDefault(EnvHeight, config.Window.Height)
	config.Window.Fullscreen = getEnvAsBoolOrDefault(EnvFullscreen, config.Window.Fullscreen)

	config.Simulation.OrbitSpeed = getEnvAsFloatOrDefault(EnvOrbitSpeed, config.Simulation.OrbitSpeed)
	config.Simulation.RotationSpeed = getEnvAsFloatOrDefault(EnvRotationSpeed, config.Simulation.RotationSpeed)
	config.Simulation.PeriodScaled = getEnvAsBoolOrDefault(EnvPeriodScaled, config.Simulation.PeriodScaled)
	config.Simulation.StarCount = getEnvAsIntOrDefault(EnvStarCount, config.Simulation.StarCount)
	config.Simulation.Seed = int64(getEnvAsIntOrDefault(EnvSeed, int(config.Simulation.Seed)))

	config.Assets.TextureDir = getEnvOrDefault(EnvTextureDir, config.Assets.TextureDir)
	config.Assets.LoadTimeout = Duration(getEnvAsDurationOrDefault(EnvLoadTimeout, time.Duration(config.Assets.LoadTimeout)))
	config.Assets.BreakerTimeout = Duration(getEnvAsDurationOrDefault(EnvBreakerTimeout, time.Duration(config.Assets.BreakerTimeout)))
	config.Assets.BreakerMaxFailures = getEnvAsIntOrDefault(EnvBreakerFailures, config.Assets.BreakerMaxFailures)

	return Validate(config)
}

// Validate checks every section of config and returns the first problem
// found as a *ValidationError.
func Validate(config *Config) error {
	if config == nil {
		return &ValidationError{Field: "Config", Value: nil, Message: "config is nil"}
	}
	if err := validateWindow(&config.Window); err != nil {
		return err
	}
	if err := validateCamera(&config.Camera); err != nil {
		return err
	}
	if err := validateControls(&config.Controls); err != nil {
		return err
	}
	if err := validateSimulation(&config.Simulation); err != nil {
		return err
	}
	return validateAssets(&config.Assets)
}

func validateWindow(w *WindowConfig) error {
	if w.Width < 1 || w.Width > 16384 {
		return &ValidationError{Field: "Window.Width", Value: w.Width, Message: "must be between 1 and 16384"}
	}
	if w.Height < 1 || w.Height > 16384 {
		return &ValidationError{Field: "Window.Height", Value: w.Height, Message: "must be between 1 and 16384"}
	}
	return nil
}

func validateCamera(c *CameraConfig) error {
	if !(c.FOV > 0 && c.FOV < 180) {
		return &ValidationError{Field: "Camera.FOV", Value: c.FOV, Message: "must be between 0 and 180 degrees (exclusive)"}
	}
	if !positive(c.Near) {
		return &ValidationError{Field: "Camera.Near", Value: c.Near, Message: "must be positive"}
	}
	if !(c.Far > c.Near) || math.IsInf(c.Far, 0) {
		return &ValidationError{Field: "Camera.Far", Value: c.Far, Message: "must be finite and greater than Near"}
	}
	if c.Position == c.Target {
		return &ValidationError{Field: "Camera.Position", Value: c.Position, Message: "must differ from Target"}
	}
	return nil
}

func validateControls(c *ControlsConfig) error {
	if !(c.DampingFactor > 0 && c.DampingFactor <= 1) {
		return &ValidationError{Field: "Controls.DampingFactor", Value: c.DampingFactor, Message: "must be in (0, 1]"}
	}
	if !positive(c.MinDistance) {
		return &ValidationError{Field: "Controls.MinDistance", Value: c.MinDistance, Message: "must be positive"}
	}
	if !(c.MaxDistance >= c.MinDistance) || math.IsInf(c.MaxDistance, 0) {
		return &ValidationError{Field: "Controls.MaxDistance", Value: c.MaxDistance, Message: "must be finite and at least MinDistance"}
	}
	if !nonNegative(c.RotateSpeed) {
		return &ValidationError{Field: "Controls.RotateSpeed", Value: c.RotateSpeed, Message: "must be non-negative"}
	}
	if !nonNegative(c.ZoomSpeed) {
		return &ValidationError{Field: "Controls.ZoomSpeed", Value: c.ZoomSpeed, Message: "must be non-negative"}
	}
	if !nonNegative(c.PanSpeed) {
		return &ValidationError{Field: "Controls.PanSpeed", Value: c.PanSpeed, Message: "must be non-negative"}
	}
	if !nonNegative(c.ClickThreshold) {
		return &ValidationError{Field: "Controls.ClickThreshold", Value: c.ClickThreshold, Message: "must be non-negative"}
	}
	return nil
}

func validateSimulation(s *SimulationConfig) error {
	if !(s.OrbitSpeed >= 0 && s.OrbitSpeed <= MaxSpeed) {
		return &ValidationError{Field: "Simulation.OrbitSpeed", Value: s.OrbitSpeed, Message: "must be between 0 and 5"}
	}
	if !(s.RotationSpeed >= 0 && s.RotationSpeed <= MaxSpeed) {
		return &ValidationError{Field: "Simulation.RotationSpeed", Value: s.RotationSpeed, Message: "must be between 0 and 5"}
	}
	if !positive(s.ScaleFactor) {
		return &ValidationError{Field: "Simulation.ScaleFactor", Value: s.ScaleFactor, Message: "must be positive"}
	}
	if !positive(s.DisplayScale) {
		return &ValidationError{Field: "Simulation.DisplayScale", Value: s.DisplayScale, Message: "must be positive"}
	}
	if !positive(s.SunRadius) {
		return &ValidationError{Field: "Simulation.SunRadius", Value: s.SunRadius, Message: "must be positive"}
	}
	if s.OrbitSegments < 3 {
		return &ValidationError{Field: "Simulation.OrbitSegments", Value: s.OrbitSegments, Message: "must be at least 3"}
	}
	if s.StarCount < 0 || s.StarCount > 100000 {
		return &ValidationError{Field: "Simulation.StarCount", Value: s.StarCount, Message: "must be between 0 and 100000"}
	}
	if !positive(s.StarFieldSize) {
		return &ValidationError{Field: "Simulation.StarFieldSize", Value: s.StarFieldSize, Message: "must be positive"}
	}
	return nil
}

func validateAssets(a *AssetsConfig) error {
	if a.TextureSize < 1 || a.TextureSize > 4096 {
		return &ValidationError{Field: "Assets.TextureSize", Value: a.TextureSize, Message: "must be between 1 and 4096"}
	}
	if a.LoadTimeout <= 0 {
		return &ValidationError{Field: "Assets.LoadTimeout", Value: time.Duration(a.LoadTimeout), Message: "must be positive"}
	}
	if a.MaxConcurrentLoads < 1 {
		return &ValidationError{Field: "Assets.MaxConcurrentLoads", Value: a.MaxConcurrentLoads, Message: "must be at least 1"}
	}
	if a.BreakerMaxFailures < 1 {
		return &ValidationError{Field: "Assets.BreakerMaxFailures", Value: a.BreakerMaxFailures, Message: "must be at least 1"}
	}
	if time.Duration(a.BreakerTimeout) < time.Second {
		return &ValidationError{Field: "Assets.BreakerTimeout", Value: time.Duration(a.BreakerTimeout), Message: "must be at least 1s"}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
