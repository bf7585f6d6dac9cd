// pkg/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orrery"

// Collector holds the session's counters and histograms. A nil *Collector
// is valid and records nothing.
type Collector struct {
	framesTotal       prometheus.Counter
	framesClamped     prometheus.Counter
	frameStep         prometheus.Histogram
	picksTotal        *prometheus.CounterVec
	selectionsTotal   *prometheus.CounterVec
	assetLoadsTotal   *prometheus.CounterVec
	assetLoadDuration prometheus.Histogram
	viewportRejected  prometheus.Counter
}

// NewCollector creates the metrics and registers them with reg. Pass a fresh
// prometheus.NewRegistry() per session to keep sessions independent.
func NewCollector(reg prometheus.Registerer) *Collector {
	m := &Collector{
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames advanced by the render loop",
		}),
		framesClamped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_clamped_total",
			Help:      "Frames whose elapsed time exceeded the maximum step",
		}),
		frameStep: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_step_seconds",
			Help:      "Clamped simulation step per frame",
			Buckets:   []float64{0.004, 0.008, 0.017, 0.033, 0.05, 0.1},
		}),
		picksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_total",
			Help:      "Pointer releases handled by the picker",
		}, []string{"result"}),
		selectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Bodies selected by clicking",
		}, []string{"body"}),
		assetLoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_loads_total",
			Help:      "Texture load attempts",
		}, []string{"body", "result"}),
		assetLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "asset_load_duration_seconds",
			Help:      "Time spent loading and resampling one texture",
			Buckets:   prometheus.DefBuckets,
		}),
		viewportRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewport_rejected_total",
			Help:      "Resize notifications ignored because the viewport had no area",
		}),
	}

	// Register metrics
	reg.MustRegister(
		m.framesTotal,
		m.framesClamped,
		m.frameStep,
		m.picksTotal,
		m.selectionsTotal,
		m.assetLoadsTotal,
		m.assetLoadDuration,
		m.viewportRejected,
	)

	return m
}

// Pick results
const (
	PickHit  = "hit"
	PickMiss = "miss"
	PickDrag = "drag"
)

// Asset load results
const (
	AssetLoaded = "loaded"
	AssetFailed = "failed"
)

// RecordFrame counts one frame with its clamped step
func (m *Collector) RecordFrame(step float64, clamped bool) {
	if m == nil {
		return
	}
	m.framesTotal.Inc()
	m.frameStep.Observe(step)
	if clamped {
		m.framesClamped.Inc()
	}
}

// RecordPick counts a pointer release by outcome
func (m *Collector) RecordPick(result string) {
	if m == nil {
		return
	}
	m.picksTotal.WithLabelValues(result).Inc()
}

// RecordSelection counts a selection of the named body
func (m *Collector) RecordSelection(body string) {
	if m == nil {
		return
	}
	m.selectionsTotal.WithLabelValues(body).Inc()
}

// RecordAssetLoad counts a texture load and its duration
func (m *Collector) RecordAssetLoad(body, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.assetLoadsTotal.WithLabelValues(body, result).Inc()
	m.assetLoadDuration.Observe(duration.Seconds())
}

// RecordViewportRejected counts an ignored zero-area resize
func (m *Collector) RecordViewportRejected() {
	if m == nil {
		return
	}
	m.viewportRejected.Inc()
}
