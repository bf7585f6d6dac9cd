// Package health reports whether an orrery session is working: the frame
// loop is ticking, the scene is live, textures can still be loaded and
// memory stays bounded. Checks run in process; there is no HTTP surface.
package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Status values
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health of a session.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Failing returns the names of the failing checks in sorted order
func (s HealthStatus) Failing() []string {
	var names []string
	for name, c := range s.Checks {
		if c.Status != StatusHealthy {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a health check, replacing one with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes all registered health checks and returns the aggregated status.
// The overall status is healthy only if all individual checks pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{
				Status:  StatusUnhealthy,
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: StatusHealthy,
			}
		}
	}

	return status
}

// FrameLoopHealthCheck fails when the frame driver never produced a frame
// or, while running, has not ticked for longer than maxStall.
type FrameLoopHealthCheck struct {
	running  func() bool
	frames   func() uint64
	lastTick func() time.Time
	now      func() time.Time
	maxStall time.Duration
}

// NewFrameLoopHealthCheck creates a health check for the frame driver.
func NewFrameLoopHealthCheck(running func() bool, frames func() uint64, lastTick, now func() time.Time, maxStall time.Duration) *FrameLoopHealthCheck {
	return &FrameLoopHealthCheck{
		running:  running,
		frames:   frames,
		lastTick: lastTick,
		now:      now,
		maxStall: maxStall,
	}
}

// Name returns the name of this health check.
func (f *FrameLoopHealthCheck) Name() string {
	return "frame_loop"
}

// Check verifies that frames are being produced. A loop that stopped after
// producing frames is healthy.
func (f *FrameLoopHealthCheck) Check(ctx context.Context) error {
	if !f.running() {
		if f.frames() == 0 {
			return fmt.Errorf("frame loop never ran")
		}
		return nil
	}
	if stall := f.now().Sub(f.lastTick()); stall > f.maxStall {
		return fmt.Errorf("no frame for %v, limit %v", stall.Round(time.Millisecond), f.maxStall)
	}
	return nil
}

// SceneHealthCheck fails when the scene has not been built or was torn down.
type SceneHealthCheck struct {
	live func() bool
}

// NewSceneHealthCheck creates a health check for the scene arena.
func NewSceneHealthCheck(live func() bool) *SceneHealthCheck {
	return &SceneHealthCheck{live: live}
}

// Name returns the name of this health check.
func (s *SceneHealthCheck) Name() string {
	return "scene"
}

// Check verifies that the scene is live.
func (s *SceneHealthCheck) Check(ctx context.Context) error {
	if !s.live() {
		return fmt.Errorf("scene is not live")
	}
	return nil
}

// TextureHealthCheck fails while the texture loader's circuit breaker is open.
type TextureHealthCheck struct {
	state func() gobreaker.State
}

// NewTextureHealthCheck creates a health check for texture loading.
func NewTextureHealthCheck(state func() gobreaker.State) *TextureHealthCheck {
	return &TextureHealthCheck{state: state}
}

// Name returns the name of this health check.
func (t *TextureHealthCheck) Name() string {
	return "textures"
}

// Check verifies that texture loads are being attempted.
func (t *TextureHealthCheck) Check(ctx context.Context) error {
	if s := t.state(); s == gobreaker.StateOpen {
		return fmt.Errorf("texture loader circuit is %s", s)
	}
	return nil
}

// MemoryHealthCheck implements HealthCheck for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
