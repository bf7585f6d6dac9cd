// pkg/metrics/metrics_test.go
package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCollector(reg)

	m.RecordFrame(1.0/60.0, false)
	m.RecordFrame(0.1, true)
	m.RecordPick(PickHit)
	m.RecordPick(PickMiss)
	m.RecordPick(PickMiss)
	m.RecordSelection("Earth")
	m.RecordAssetLoad("earth", AssetFailed, 20*time.Millisecond)
	m.RecordViewportRejected()

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"frames", m.framesTotal, 2},
		{"clamped", m.framesClamped, 1},
		{"hits", m.picksTotal.WithLabelValues(PickHit), 1},
		{"misses", m.picksTotal.WithLabelValues(PickMiss), 2},
		{"earth selections", m.selectionsTotal.WithLabelValues("Earth"), 1},
		{"failed loads", m.assetLoadsTotal.WithLabelValues("earth", AssetFailed), 1},
		{"viewport", m.viewportRejected, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(m.frameStep); n != 1 {
		t.Errorf("frame step histogram series = %d, want 1", n)
	}
}

func TestCollector_IndependentRegistries(t *testing.T) {
	// Two sessions must not collide on registration.
	NewCollector(prometheus.NewRegistry())
	NewCollector(prometheus.NewRegistry())
}

func TestCollector_NilIsNoOp(t *testing.T) {
	var m *Collector
	m.RecordFrame(0.1, true)
	m.RecordPick(PickDrag)
	m.RecordSelection("Mars")
	m.RecordAssetLoad("mars", AssetLoaded, time.Second)
	m.RecordViewportRejected()
}
