// pkg/resource/manager.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-orrery/pkg/logging"
)

var (
	// ErrClosed is returned by StartGoroutine after Shutdown
	ErrClosed = errors.New("resource manager is shut down")
	// ErrLimit is returned when the goroutine limit would be exceeded
	ErrLimit = errors.New("goroutine limit exceeded")
)

// Manager tracks the background goroutines of a session so they can be
// bounded, cancelled together and waited for on teardown.
type Manager struct {
	maxGoroutines   int64
	shutdownTimeout time.Duration

	// Atomic counters for thread-safe access
	goroutineCount int64
	started        int64
	panics         int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	logger *logging.Logger
}

// NewManager creates a manager allowing at most maxGoroutines concurrent
// tracked goroutines. Shutdown waits at most shutdownTimeout for them.
func NewManager(maxGoroutines int, shutdownTimeout time.Duration, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		maxGoroutines:   int64(maxGoroutines),
		shutdownTimeout: shutdownTimeout,
		ctx:             ctx,
		cancel:          cancel,
		logger:          logger.With("component", "resource"),
	}
}

// StartGoroutine runs fn in a tracked goroutine. The context passed to fn is
// cancelled when ctx is done or when the manager is cancelled or shut down.
func (rm *Manager) StartGoroutine(ctx context.Context, name string, fn func(context.Context)) error {
	rm.mu.Lock()
	if rm.closed {
		rm.mu.Unlock()
		return ErrClosed
	}

	// Check goroutine limit before starting
	current := atomic.LoadInt64(&rm.goroutineCount)
	if current >= rm.maxGoroutines {
		rm.mu.Unlock()
		rm.logger.Warn(ctx, "Goroutine limit exceeded",
			"current", current,
			"limit", rm.maxGoroutines,
			"name", name,
		)
		return fmt.Errorf("%w: %d/%d", ErrLimit, current, rm.maxGoroutines)
	}

	atomic.AddInt64(&rm.goroutineCount, 1)
	atomic.AddInt64(&rm.started, 1)
	rm.wg.Add(1)
	rm.mu.Unlock()

	gctx, gcancel := context.WithCancel(rm.ctx)
	stop := context.AfterFunc(ctx, gcancel)

	go func() {
		defer rm.wg.Done()
		defer atomic.AddInt64(&rm.goroutineCount, -1)
		defer gcancel()
		defer stop()

		// Panic recovery
		defer func() {
			if r := recover(); r != nil {
				atomic.AddInt64(&rm.panics, 1)
				rm.logger.Error(ctx, "Goroutine panic",
					fmt.Errorf("panic: %v", r),
					"name", name,
				)
			}
		}()

		fn(gctx)
	}()

	return nil
}

// GetGoroutineCount returns the current number of tracked goroutines.
func (rm *Manager) GetGoroutineCount() int64 {
	return atomic.LoadInt64(&rm.goroutineCount)
}

// Stats contains goroutine usage statistics.
type Stats struct {
	GoroutineCount int64 `json:"goroutine_count"`
	MaxGoroutines  int64 `json:"max_goroutines"`
	Started        int64 `json:"started"`
	Panics         int64 `json:"panics"`
}

// GetStats returns current usage statistics.
func (rm *Manager) GetStats() Stats {
	return Stats{
		GoroutineCount: rm.GetGoroutineCount(),
		MaxGoroutines:  rm.maxGoroutines,
		Started:        atomic.LoadInt64(&rm.started),
		Panics:         atomic.LoadInt64(&rm.panics),
	}
}

// Closed reports whether the manager has been cancelled or shut down
func (rm *Manager) Closed() bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.closed
}

// Cancel signals every tracked goroutine to stop without waiting and
// refuses new ones.
func (rm *Manager) Cancel() {
	rm.mu.Lock()
	rm.closed = true
	rm.mu.Unlock()
	rm.cancel()
}

// Shutdown cancels every tracked goroutine and waits for them to return,
// bounded by the shutdown timeout and ctx. Safe to call more than once.
func (rm *Manager) Shutdown(ctx context.Context) error {
	rm.Cancel()

	done := make(chan struct{})
	go func() {
		rm.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, rm.shutdownTimeout)
	defer cancel()

	select {
	case <-done:
		rm.logger.Debug(ctx, "All tracked goroutines finished")
		return nil
	case <-shutdownCtx.Done():
		remaining := rm.GetGoroutineCount()
		rm.logger.Warn(ctx, "Shutdown timeout exceeded with goroutines still running",
			"remaining", remaining,
		)
		return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
	}
}
