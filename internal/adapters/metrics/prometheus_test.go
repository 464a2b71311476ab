package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precompile/internal/adapters/metrics"
	"go.trai.ch/precompile/internal/core/domain"
)

func TestPrometheusRecorder_Outcomes(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	rec.ObserveOutcome(domain.OutcomeSkippedCacheHit, 0)
	rec.ObserveOutcome(domain.OutcomeRebuilt, 3*time.Second)
	rec.ObserveOutcome(domain.OutcomeRebuilt, 4*time.Second)

	count, err := testutil.GatherAndCount(reg, "precompile_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "precompile_build_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Positive(t, testutil.ToFloat64(rec.LastRun()))
}

func TestPrometheusRecorder_Uploads(t *testing.T) {
	rec := metrics.NewPrometheusRecorder(nil)

	rec.ObserveUpload(domain.UploadResultUploaded)
	rec.ObserveUpload(domain.UploadResultUploaded)
	rec.ObserveUpload(domain.UploadResultSkipped)

	assert.InDelta(t, 2, testutil.ToFloat64(rec.Uploads().WithLabelValues(domain.UploadResultUploaded)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(rec.Uploads().WithLabelValues(domain.UploadResultSkipped)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(rec.Uploads().WithLabelValues(domain.UploadResultFailed)), 0)
}

func TestPrometheusRecorder_Flush(t *testing.T) {
	rec := metrics.NewPrometheusRecorder(nil)
	rec.ObserveOutcome(domain.OutcomeRebuildFailed, time.Second)

	path := filepath.Join(t.TempDir(), "textfile", "precompile.prom")
	require.NoError(t, rec.Flush(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `precompile_runs_total{outcome="rebuilt-failure"} 1`)
}

func TestPrometheusRecorder_FlushEmptyPath(t *testing.T) {
	rec := metrics.NewPrometheusRecorder(nil)
	assert.NoError(t, rec.Flush(""))
}

func TestPrometheusRecorder_FlushUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	rec := metrics.NewPrometheusRecorder(nil)
	err := rec.Flush(filepath.Join(blocker, "precompile.prom"))
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrMetricsWriteFailed)
}
