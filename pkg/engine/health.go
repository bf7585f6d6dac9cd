package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/opd-ai/go-orrery/pkg/health"
	"github.com/opd-ai/go-orrery/pkg/resource"
)

const (
	// maxFrameStall is how long the driver may go without a tick
	maxFrameStall = 2 * time.Second
	maxHeapMB     = 1024
)

func (s *Simulation) healthChecks() *health.HealthChecker {
	hc := health.NewHealthChecker()
	hc.AddCheck(health.NewFrameLoopHealthCheck(s.driver.Running, s.driver.Frames, s.driver.LastTime, s.driver.Now, maxFrameStall))
	hc.AddCheck(health.NewSceneHealthCheck(s.sceneLive))
	hc.AddCheck(health.NewTextureHealthCheck(s.loader.State))
	hc.AddCheck(resource.NewHealthCheck(s.resources))
	hc.AddCheck(health.NewMemoryHealthCheck(maxHeapMB, heapMB))
	return hc
}

func (s *Simulation) sceneLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene != nil && s.scene.Live()
}

func heapMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.HeapAlloc / (1 << 20))
}

// Health runs the session checks. Call it from the frame thread or after the
// loop has returned.
func (s *Simulation) Health(ctx context.Context) health.HealthStatus {
	return s.health.CheckHealth(ctx)
}

// logHealth records the session's final health before teardown
func (s *Simulation) logHealth(ctx context.Context) {
	status := s.Health(ctx)
	if status.Status == health.StatusHealthy {
		s.logger.Info(s.ctx, "Session healthy", "frames", s.driver.Frames())
		return
	}
	for _, name := range status.Failing() {
		s.logger.Warn(s.ctx, "Session check failed",
			"check", name,
			"message", status.Checks[name].Message,
		)
	}
}
