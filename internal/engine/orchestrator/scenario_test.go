package orchestrator_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precompile/internal/adapters/cache"
	fsadapter "go.trai.ch/precompile/internal/adapters/fs"
	"go.trai.ch/precompile/internal/adapters/logger"
	"go.trai.ch/precompile/internal/adapters/metrics"
	"go.trai.ch/precompile/internal/adapters/telemetry"
	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports"
	"go.trai.ch/precompile/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// minifier is a build task that writes <name>.min.css for every source .css file.
type minifier struct {
	calls int
	fail  bool
}

func (m *minifier) RunBuildTask(_ context.Context, spec domain.BuildSpec) (domain.BuildResult, error) {
	m.calls++
	src := filepath.Join(spec.Dir, "app", "assets")
	out := filepath.Join(spec.Dir, "public", "assets")
	if err := os.MkdirAll(out, 0o750); err != nil {
		return domain.BuildResult{}, err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return domain.BuildResult{}, err
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".css") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, name))
		if err != nil {
			return domain.BuildResult{}, err
		}
		minName := strings.TrimSuffix(name, ".css") + ".min.css"
		if err := os.WriteFile(filepath.Join(out, minName), bytes.TrimSpace(data), 0o600); err != nil {
			return domain.BuildResult{}, err
		}
		if m.fail {
			// Partial output, then a crash.
			return domain.BuildResult{Success: false, ExitCode: 1, Elapsed: time.Millisecond}, nil
		}
	}
	return domain.BuildResult{Success: true, Elapsed: 10 * time.Millisecond}, nil
}

// flakyCache fails Store for one key while failKey is set.
type flakyCache struct {
	ports.ContentCache
	failKey string
}

func (c *flakyCache) Store(key string) error {
	if key == c.failKey {
		return zerr.Wrap(domain.ErrStorage, "disk full")
	}
	return c.ContentCache.Store(key)
}

type scenario struct {
	workDir string
	cfg     *domain.Config
	cache   ports.ContentCache
	task    *minifier
	orch    *orchestrator.Orchestrator
	logs    *bytes.Buffer
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	workDir := t.TempDir()
	hasher := fsadapter.NewHasher(fsadapter.NewWalker())

	store, err := cache.NewStore(t.TempDir(), workDir, hasher)
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	logs := &bytes.Buffer{}
	task := &minifier{}
	orch := orchestrator.New(
		fsadapter.NewDetector(fsadapter.NewWalker(), hasher),
		task,
		nil,
		logger.NewWithWriter(logs, slog.LevelInfo),
		telemetry.NewNoOp(),
		metrics.NewPrometheusRecorder(nil),
	)
	orch.SetLookupEnv(func(string) (string, bool) { return "", false })

	return &scenario{workDir: workDir, cfg: &cfg, cache: store, task: task, orch: orch, logs: logs}
}

func (s *scenario) writeSource(t *testing.T, name, content string) {
	t.Helper()
	p := filepath.Join(s.workDir, "app", "assets", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func (s *scenario) output(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.workDir, "public", "assets", name))
	require.NoError(t, err)
	return string(data)
}

// freshCheckout drops the compiled output, as a new deploy would.
func (s *scenario) freshCheckout(t *testing.T) {
	t.Helper()
	require.NoError(t, os.RemoveAll(filepath.Join(s.workDir, "public", "assets")))
}

func (s *scenario) run(t *testing.T) *domain.Report {
	t.Helper()
	report, err := s.orch.Run(context.Background(), s.workDir, s.cfg, s.cache)
	require.NoError(t, err)
	return report
}

func TestScenario_RebuildThenCacheHit(t *testing.T) {
	s := newScenario(t)
	s.writeSource(t, "a.css", "  body { color: red }  \n")

	first := s.run(t)
	assert.Equal(t, domain.OutcomeRebuilt, first.Outcome)
	assert.Equal(t, 1, s.task.calls)
	assert.Equal(t, "body { color: red }", s.output(t, "a.min.css"))
	assert.True(t, s.cache.Exists("app/assets"))
	assert.True(t, s.cache.Exists("public/assets"))

	s.freshCheckout(t)

	second := s.run(t)
	assert.Equal(t, domain.OutcomeSkippedCacheHit, second.Outcome)
	assert.Equal(t, 1, s.task.calls)
	assert.Equal(t, "body { color: red }", s.output(t, "a.min.css"))
	assert.Contains(t, s.logs.String(), "Assets already compiled, loading from cache")
}

func TestScenario_ChangedSourceRebuilds(t *testing.T) {
	s := newScenario(t)
	s.writeSource(t, "a.css", "a")
	s.run(t)

	s.freshCheckout(t)
	s.writeSource(t, "b.css", "b")

	report := s.run(t)
	assert.Equal(t, domain.OutcomeRebuilt, report.Outcome)
	assert.Equal(t, 2, s.task.calls)
	assert.Equal(t, "b", s.output(t, "b.min.css"))

	entry, err := s.cache.Entry("public/assets")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 2, entry.Files)
}

func TestScenario_FailureDoesNotPoisonCache(t *testing.T) {
	s := newScenario(t)
	s.writeSource(t, "a.css", "good")
	s.run(t)

	entryBefore, err := s.cache.Entry("public/assets")
	require.NoError(t, err)

	// A broken change fails mid-build.
	s.freshCheckout(t)
	s.writeSource(t, "a.css", "broken")
	s.task.fail = true

	failed := s.run(t)
	assert.Equal(t, domain.OutcomeRebuildFailed, failed.Outcome)
	assert.True(t, failed.FallbackEnabled)

	entryAfter, err := s.cache.Entry("public/assets")
	require.NoError(t, err)
	assert.Equal(t, entryBefore.Digest, entryAfter.Digest)

	// Reverting the change restores the last good output from the cache.
	s.freshCheckout(t)
	s.writeSource(t, "a.css", "good")
	s.task.fail = false

	restored := s.run(t)
	assert.Equal(t, domain.OutcomeSkippedCacheHit, restored.Outcome)
	assert.Equal(t, "good", s.output(t, "a.min.css"))
	assert.Equal(t, 2, s.task.calls)
}

func TestScenario_OutputStoreFailureForcesRebuild(t *testing.T) {
	s := newScenario(t)
	flaky := &flakyCache{ContentCache: s.cache}
	s.cache = flaky

	s.writeSource(t, "a.css", "x")
	s.run(t)

	// The next build succeeds but its output cannot be cached.
	s.freshCheckout(t)
	s.writeSource(t, "a.css", "y")
	flaky.failKey = s.cfg.OutputDir

	stored := s.run(t)
	assert.Equal(t, domain.OutcomeRebuilt, stored.Outcome)
	require.ErrorIs(t, stored.CacheErr, domain.ErrStorage)
	assert.False(t, s.cache.Exists(s.cfg.SourceDir))

	// A fresh checkout of the same source must not restore the output built from "x".
	s.freshCheckout(t)
	flaky.failKey = ""

	report := s.run(t)
	assert.Equal(t, domain.OutcomeRebuilt, report.Outcome)
	assert.Equal(t, 3, s.task.calls)
	assert.Equal(t, "y", s.output(t, "a.min.css"))

	s.freshCheckout(t)
	hit := s.run(t)
	assert.Equal(t, domain.OutcomeSkippedCacheHit, hit.Outcome)
	assert.Equal(t, "y", s.output(t, "a.min.css"))
}

func TestScenario_ManifestWins(t *testing.T) {
	s := newScenario(t)
	s.writeSource(t, "a.css", "a")
	s.run(t)

	// Locally compiled assets ship their own manifest.
	manifest := filepath.Join(s.workDir, "public", "assets", "manifest.yml")
	require.NoError(t, os.WriteFile(manifest, []byte("a.css: a-123.css\n"), 0o600))
	s.writeSource(t, "a.css", "changed")

	report := s.run(t)
	assert.Equal(t, domain.OutcomeSkippedManifest, report.Outcome)
	assert.Equal(t, 1, s.task.calls)
	assert.Equal(t, "a", s.output(t, "a.min.css"))
}
