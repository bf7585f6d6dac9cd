// pkg/engine/driver.go
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-orrery/pkg/logging"
)

// Clock supplies frame timestamps
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// StepFunc consumes the raw seconds elapsed since the previous frame
type StepFunc func(elapsed float64)

// Driver is the per-frame callback. It measures elapsed time against the
// previous tick and hands it to the step function while running.
type Driver struct {
	clock    Clock
	step     StepFunc
	logger   *logging.Logger
	lastTime time.Time
	running  atomic.Bool
	frames   uint64
	limit    uint64
}

// NewDriver creates a stopped driver. A nil clock uses wall time.
func NewDriver(clock Clock, step StepFunc, logger *logging.Logger) *Driver {
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &Driver{
		clock:  clock,
		step:   step,
		logger: logger.With("component", "driver"),
	}
}

// Start marks the driver running and resets the frame clock so the first
// tick does not see the time spent before it.
func (d *Driver) Start() {
	d.lastTime = d.clock.Now()
	d.running.Store(true)
}

// Stop ends the loop. The next Tick does nothing and Run returns.
func (d *Driver) Stop() {
	d.running.Store(false)
}

// Running reports whether ticks are being processed
func (d *Driver) Running() bool {
	return d.running.Load()
}

// LastTime returns the timestamp of the previous tick
func (d *Driver) LastTime() time.Time {
	return d.lastTime
}

// Now reads the driver's clock
func (d *Driver) Now() time.Time {
	return d.clock.Now()
}

// Frames returns the number of completed ticks
func (d *Driver) Frames() uint64 {
	return d.frames
}

// SetFrameLimit stops the driver after n ticks. Zero means no limit.
func (d *Driver) SetFrameLimit(n uint64) {
	d.limit = n
}

// Tick runs one frame. It returns false once the driver has stopped, in which
// case nothing was stepped and the caller should not schedule another tick.
func (d *Driver) Tick() (ok bool) {
	if !d.running.Load() {
		return false
	}

	now := d.clock.Now()
	elapsed := now.Sub(d.lastTime).Seconds()
	d.lastTime = now

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error(context.Background(), "Frame panicked, stopping",
				fmt.Errorf("panic: %v", r),
				"frame", d.frames,
			)
			d.Stop()
			ok = false
		}
	}()

	d.step(elapsed)
	d.frames++

	if d.limit > 0 && d.frames >= d.limit {
		d.Stop()
	}
	return true
}

// Run ticks on every interval until ctx is done or the driver stops. It is
// the headless counterpart of a windowing system's frame callback.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("frame interval must be positive, got %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for d.Running() {
		select {
		case <-ctx.Done():
			d.Stop()
			return ctx.Err()
		case <-ticker.C:
			d.Tick()
		}
	}
	return nil
}
