// pkg/resource/health_test.go
package resource

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHealthCheck(t *testing.T) {
	rm := newTestManager(2, time.Second)
	check := NewHealthCheck(rm)

	if check.Name() != "texture_loads" {
		t.Errorf("Name() = %q", check.Name())
	}
	if err := check.Check(context.Background()); err != nil {
		t.Errorf("idle manager unhealthy: %v", err)
	}

	if err := rm.StartGoroutine(context.Background(), "panicky", func(context.Context) {
		panic("decoder exploded")
	}); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for rm.GetGoroutineCount() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := check.Check(context.Background()); err == nil {
		t.Error("panicked load reported healthy")
	}

	rm.Shutdown(context.Background())
	if err := check.Check(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Check() after Shutdown = %v, want ErrClosed", err)
	}
}
