// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// HealthCheck reports on the goroutines a Manager tracks.
type HealthCheck struct {
	manager *Manager
}

// NewHealthCheck creates a new health check for the resource manager.
func NewHealthCheck(manager *Manager) *HealthCheck {
	return &HealthCheck{
		manager: manager,
	}
}

// Name returns the name of this health check.
func (r *HealthCheck) Name() string {
	return "texture_loads"
}

// Check fails once the manager is shut down or any tracked goroutine has
// panicked.
func (r *HealthCheck) Check(ctx context.Context) error {
	if r.manager.Closed() {
		return ErrClosed
	}

	stats := r.manager.GetStats()
	if stats.Panics > 0 {
		return fmt.Errorf("%d of %d background loads panicked", stats.Panics, stats.Started)
	}
	return nil
}
