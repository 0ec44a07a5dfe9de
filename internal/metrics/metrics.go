// Package metrics records indexing counters in a Prometheus registry. A nil
// *Recorder is valid and records nothing.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lsif_flow"

// Skip reasons.
const (
	SkipUnresolved   = "unresolved"
	SkipGlobalAlias  = "global_alias"
	SkipNotInSource  = "not_in_source"
	SkipResolveError = "resolve_error"
)

// Hover outcomes.
const (
	HoverFound  = "found"
	HoverEmpty  = "empty"
	HoverFailed = "failed"
)

type Recorder struct {
	registry *prometheus.Registry

	items           *prometheus.CounterVec
	skips           *prometheus.CounterVec
	hovers          *prometheus.CounterVec
	gaps            prometheus.Counter
	reorderPeak     prometheus.Gauge
	documentSeconds prometheus.Histogram

	peak atomic.Int64
}

// New creates a recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Items written to the dump by label",
		}, []string{"label"}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_tokens_total",
			Help:      "Candidate tokens skipped during document emission by reason",
		}, []string{"reason"}),
		hovers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hover_lookups_total",
			Help:      "Hover lookups by outcome",
		}, []string{"outcome"}),
		gaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reorder",
			Name:      "gaps_total",
			Help:      "Ids missing from the stream when it completed",
		}),
		reorderPeak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reorder",
			Name:      "peak_queue_depth",
			Help:      "Largest number of items held back waiting for a lower id",
		}),
		documentSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_emit_seconds",
			Help:      "Time spent walking a single document",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
	}

	r.registry.MustRegister(r.items, r.skips, r.hovers, r.gaps, r.reorderPeak, r.documentSeconds)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ItemWritten(label string) {
	if r == nil {
		return
	}
	r.items.WithLabelValues(label).Inc()
}

func (r *Recorder) TokenSkipped(reason string) {
	if r == nil {
		return
	}
	r.skips.WithLabelValues(reason).Inc()
}

func (r *Recorder) HoverLookup(outcome string) {
	if r == nil {
		return
	}
	r.hovers.WithLabelValues(outcome).Inc()
}

func (r *Recorder) ReorderGap() {
	if r == nil {
		return
	}
	r.gaps.Inc()
}

// ReorderQueueDepth reports the current depth; only the peak is kept.
func (r *Recorder) ReorderQueueDepth(depth int) {
	if r == nil {
		return
	}

	for {
		peak := r.peak.Load()
		if int64(depth) <= peak {
			return
		}
		if r.peak.CompareAndSwap(peak, int64(depth)) {
			r.reorderPeak.Set(float64(depth))
			return
		}
	}
}

func (r *Recorder) DocumentEmitted(elapsed time.Duration) {
	if r == nil {
		return
	}
	r.documentSeconds.Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry in the Prometheus text format, suitable
// for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrap(err, "prometheus.WriteToTextfile")
	}

	return nil
}
