// Package metrics records run outcomes with Prometheus collectors.
package metrics

import (
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "precompile"

var _ ports.Metrics = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements ports.Metrics using Prometheus metrics.
// A one-shot process has no scrape endpoint, so Flush writes the registry
// in the node_exporter textfile format.
type PrometheusRecorder struct {
	reg           *prom.Registry
	runs          *prom.CounterVec
	buildDuration prom.Histogram
	uploads       *prom.CounterVec
	lastRun       prom.Gauge
}

// NewPrometheusRecorder constructs and registers the collectors on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Precompile runs by outcome",
		}, []string{"outcome"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of the asset build task",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		uploads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sync_objects_total",
			Help:      "Remote sync results per object",
		}, []string{"result"}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run",
		}),
	}
	reg.MustRegister(pr.runs, pr.buildDuration, pr.uploads, pr.lastRun)
	return pr
}

// ObserveOutcome counts the outcome and, for rebuilds, the build time.
func (p *PrometheusRecorder) ObserveOutcome(outcome domain.Outcome, elapsed time.Duration) {
	if p == nil {
		return
	}
	p.runs.WithLabelValues(string(outcome)).Inc()
	if outcome.IsRebuild() {
		p.buildDuration.Observe(elapsed.Seconds())
	}
	p.lastRun.SetToCurrentTime()
}

// ObserveUpload counts one object sync result.
func (p *PrometheusRecorder) ObserveUpload(result string) {
	if p == nil {
		return
	}
	p.uploads.WithLabelValues(result).Inc()
}

// Flush writes all registered metrics to path. An empty path is a no-op.
func (p *PrometheusRecorder) Flush(path string) error {
	if p == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrMetricsWriteFailed, err.Error()), "path", path)
	}
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrMetricsWriteFailed, err.Error()), "path", path)
	}
	return nil
}
