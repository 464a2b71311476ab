package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precompile/internal/adapters/telemetry"
	"go.trai.ch/precompile/internal/app"
	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports/mocks"
	"go.trai.ch/precompile/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

type appFixture struct {
	loader    *mocks.MockConfigLoader
	opener    *mocks.MockCacheOpener
	cache     *mocks.MockContentCache
	detector  *mocks.MockChangeDetector
	task      *mocks.MockBuildTask
	telemetry *mocks.MockTelemetry
	metrics   *mocks.MockMetrics
	logger    *mocks.MockLogger
	app       *app.App
	dir       string
	cfg       *domain.Config
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &appFixture{
		loader:    mocks.NewMockConfigLoader(ctrl),
		opener:    mocks.NewMockCacheOpener(ctrl),
		cache:     mocks.NewMockContentCache(ctrl),
		detector:  mocks.NewMockChangeDetector(ctrl),
		task:      mocks.NewMockBuildTask(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		metrics:   mocks.NewMockMetrics(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		dir:       t.TempDir(),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	cfg := domain.DefaultConfig()
	cfg.CacheDir = t.TempDir()
	cfg.MetricsTextfile = filepath.Join(t.TempDir(), "precompile.prom")
	f.cfg = &cfg

	orch := orchestrator.New(
		f.detector, f.task, mocks.NewMockRemoteSyncer(ctrl), f.logger, telemetry.NewNoOp(), f.metrics)
	f.app = app.New(f.loader, f.opener, orch, f.logger, f.telemetry, f.metrics)
	return f
}

func (f *appFixture) writeManifest(t *testing.T) {
	t.Helper()
	p := filepath.Join(f.dir, filepath.FromSlash(f.cfg.ManifestPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte("{}\n"), 0o600))
}

func TestApp_Run(t *testing.T) {
	f := newAppFixture(t)
	f.writeManifest(t)

	gomock.InOrder(
		f.loader.EXPECT().Load(f.dir, "").Return(f.cfg, nil),
		f.opener.EXPECT().Open(f.cfg.CacheDir, f.dir).Return(f.cache, nil),
		f.metrics.EXPECT().ObserveOutcome(domain.OutcomeSkippedManifest, time.Duration(0)),
		f.metrics.EXPECT().Flush(f.cfg.MetricsTextfile).Return(nil),
		f.telemetry.EXPECT().Close().Return(nil),
	)

	report, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSkippedManifest, report.Outcome)
}

func TestApp_Run_Overrides(t *testing.T) {
	f := newAppFixture(t)
	f.writeManifest(t)
	override := t.TempDir()

	f.loader.EXPECT().Load(f.dir, "custom.yaml").Return(f.cfg, nil)
	f.opener.EXPECT().Open(override, f.dir).Return(f.cache, nil)
	f.metrics.EXPECT().ObserveOutcome(gomock.Any(), gomock.Any())
	f.metrics.EXPECT().Flush(gomock.Any()).Return(nil)
	f.telemetry.EXPECT().Close().Return(nil)

	_, err := f.app.Run(context.Background(), app.RunOptions{
		Dir:        f.dir,
		ConfigFile: "custom.yaml",
		CacheDir:   override,
		Required:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, override, f.cfg.CacheDir)
	assert.True(t, f.cfg.Required)
}

func TestApp_Run_ConfigError(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(f.dir, "").Return(nil, domain.ErrConfigReadFailed)

	report, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.Error(t, err)
	assert.Nil(t, report)
	require.ErrorIs(t, err, domain.ErrConfigReadFailed)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Run_CacheOpenError(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(f.dir, "").Return(f.cfg, nil)
	f.opener.EXPECT().Open(f.cfg.CacheDir, f.dir).Return(nil, domain.ErrStorage)

	_, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "failed to open cache")
}

func TestApp_Run_MetricsFlushFailureIsNotFatal(t *testing.T) {
	f := newAppFixture(t)
	f.writeManifest(t)

	f.loader.EXPECT().Load(f.dir, "").Return(f.cfg, nil)
	f.opener.EXPECT().Open(f.cfg.CacheDir, f.dir).Return(f.cache, nil)
	f.metrics.EXPECT().ObserveOutcome(gomock.Any(), gomock.Any())
	f.metrics.EXPECT().Flush(gomock.Any()).Return(domain.ErrMetricsWriteFailed)
	f.logger.EXPECT().Warn(gomock.Any())
	f.telemetry.EXPECT().Close().Return(nil)

	report, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSkippedManifest, report.Outcome)
}

func TestApp_Run_RequiredTaskUnavailable(t *testing.T) {
	f := newAppFixture(t)
	f.cfg.Required = true

	f.loader.EXPECT().Load(f.dir, "").Return(f.cfg, nil)
	f.opener.EXPECT().Open(f.cfg.CacheDir, f.dir).Return(f.cache, nil)
	f.cache.EXPECT().Path(f.cfg.SourceDir).Return(filepath.Join(f.cfg.CacheDir, "app", "assets"))
	f.detector.EXPECT().HasChanged(gomock.Any(), gomock.Any()).Return(true)
	f.task.EXPECT().RunBuildTask(gomock.Any(), gomock.Any()).
		Return(domain.BuildResult{}, domain.ErrBuildTaskUnavailable)
	f.metrics.EXPECT().ObserveOutcome(gomock.Any(), gomock.Any()).AnyTimes()
	f.metrics.EXPECT().Flush(f.cfg.MetricsTextfile).Return(nil)
	f.telemetry.EXPECT().Close().Return(nil)
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	_, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.ErrorIs(t, err, domain.ErrBuildTaskUnavailable)
	assert.Contains(t, err.Error(), "asset precompilation aborted")
}

func TestApp_CacheStatus(t *testing.T) {
	f := newAppFixture(t)
	stored := &domain.CacheEntry{Key: "public/assets", Files: 3, Digest: "sha256:abc"}

	f.loader.EXPECT().Load(f.dir, "").Return(f.cfg, nil)
	f.opener.EXPECT().Open(f.cfg.CacheDir, f.dir).Return(f.cache, nil)
	f.cache.EXPECT().Entry("app/assets").Return(nil, nil)
	f.cache.EXPECT().Path("app/assets").Return("/cache/app/assets")
	f.cache.EXPECT().Entry("public/assets").Return(stored, nil)
	f.cache.EXPECT().Path("public/assets").Return("/cache/public/assets")

	statuses, err := f.app.CacheStatus(app.RunOptions{Dir: f.dir})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "app/assets", statuses[0].Key)
	assert.Nil(t, statuses[0].Entry)
	assert.Equal(t, "/cache/public/assets", statuses[1].Path)
	assert.Equal(t, stored, statuses[1].Entry)
}

func TestApp_CacheStatus_EntryError(t *testing.T) {
	f := newAppFixture(t)
	f.loader.EXPECT().Load(f.dir, "").Return(f.cfg, nil)
	f.opener.EXPECT().Open(f.cfg.CacheDir, f.dir).Return(f.cache, nil)
	f.cache.EXPECT().Entry("app/assets").Return(nil, errors.New("corrupt entry"))

	_, err := f.app.CacheStatus(app.RunOptions{Dir: f.dir})
	require.EqualError(t, err, "corrupt entry")
}
