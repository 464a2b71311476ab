// Package orchestrator implements the asset build state machine:
// manifest present, cache hit, or rebuild.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports"
	"go.trai.ch/zerr"
)

// outputTailLines bounds the build output attached to a failure.
const outputTailLines = 20

// Orchestrator decides whether assets need compiling and drives the build,
// cache and sync steps accordingly.
type Orchestrator struct {
	detector  ports.ChangeDetector
	task      ports.BuildTask
	syncer    ports.RemoteSyncer
	logger    ports.Logger
	telemetry ports.Telemetry
	metrics   ports.Metrics
	lookupEnv func(string) (string, bool)
}

// New creates an Orchestrator.
func New(
	detector ports.ChangeDetector,
	task ports.BuildTask,
	syncer ports.RemoteSyncer,
	logger ports.Logger,
	telemetry ports.Telemetry,
	metrics ports.Metrics,
) *Orchestrator {
	return &Orchestrator{
		detector:  detector,
		task:      task,
		syncer:    syncer,
		logger:    logger,
		telemetry: telemetry,
		metrics:   metrics,
		lookupEnv: os.LookupEnv,
	}
}

// Run executes one precompile pass for the application in workDir.
//
// Precedence is strict: a present manifest wins over a cache hit, which wins
// over a rebuild. The returned error is non-nil only when cfg.Required is set
// and the build task could not be started; every other failure is reported
// through the Report.
func (o *Orchestrator) Run(
	ctx context.Context,
	workDir string,
	cfg *domain.Config,
	cache ports.ContentCache,
) (*domain.Report, error) {
	report, err := o.run(ctx, workDir, cfg, cache)
	if report != nil && o.metrics != nil {
		o.metrics.ObserveOutcome(report.Outcome, report.Elapsed)
	}
	return report, err
}

func (o *Orchestrator) run(
	ctx context.Context,
	workDir string,
	cfg *domain.Config,
	cache ports.ContentCache,
) (*domain.Report, error) {
	_, detect := o.telemetry.Record(ctx, string(domain.StageDetect))

	if fileExists(filepath.Join(workDir, filepath.FromSlash(cfg.ManifestPath))) {
		o.status(detect, fmt.Sprintf("Detected %s, assuming assets were compiled locally", path.Base(cfg.ManifestPath)))
		detect.Cached()
		detect.Complete(nil)
		return &domain.Report{Outcome: domain.OutcomeSkippedManifest}, nil
	}

	source := filepath.Join(workDir, filepath.FromSlash(cfg.SourceDir))
	changed := o.detector.HasChanged(source, cache.Path(cfg.SourceDir))
	detect.Complete(nil)

	if !changed && o.restore(ctx, cfg, cache) {
		return &domain.Report{Outcome: domain.OutcomeSkippedCacheHit}, nil
	}

	return o.rebuild(ctx, workDir, cfg, cache)
}

// restore loads the cached output tree. It reports false when the caller
// should fall through to a rebuild.
func (o *Orchestrator) restore(ctx context.Context, cfg *domain.Config, cache ports.ContentCache) bool {
	_, v := o.telemetry.Record(ctx, string(domain.StageRestore))

	o.status(v, "Assets already compiled, loading from cache")
	if err := cache.Load(cfg.OutputDir); err != nil {
		o.logger.Warn(fmt.Sprintf("Loading assets from cache failed, recompiling: %v", err))
		v.Complete(err)
		return false
	}

	v.Cached()
	v.Complete(nil)
	return true
}

func (o *Orchestrator) rebuild(
	ctx context.Context,
	workDir string,
	cfg *domain.Config,
	cache ports.ContentCache,
) (*domain.Report, error) {
	cctx, compile := o.telemetry.Record(ctx, string(domain.StageCompile))

	spec := domain.BuildSpec{
		Command: cfg.Command,
		Dir:     workDir,
		Env:     cfg.Env.Resolve(o.lookupEnv),
	}
	o.status(compile, "Running: "+strings.Join(cfg.Command, " "))

	result, err := o.task.RunBuildTask(cctx, spec)
	if err != nil {
		compile.Complete(err)
		report := &domain.Report{Outcome: domain.OutcomeRebuildFailed, BuildErr: err}
		if cfg.Required {
			return report, zerr.Wrap(err, "asset build task is required")
		}
		return o.fail(workDir, cfg, report), nil
	}

	report := &domain.Report{Elapsed: result.Elapsed}
	if !result.Success {
		buildErr := zerr.With(zerr.Wrap(domain.ErrBuildTaskFailed, "build exited unsuccessfully"), "exit_code", result.ExitCode)
		if tail := outputTail(result.Output, outputTailLines); tail != "" {
			buildErr = zerr.With(buildErr, "output", tail)
		}
		compile.Complete(buildErr)
		report.Outcome = domain.OutcomeRebuildFailed
		report.BuildErr = buildErr
		return o.fail(workDir, cfg, report), nil
	}

	compile.Complete(nil)
	report.Outcome = domain.OutcomeRebuilt
	o.status(compile, fmt.Sprintf("Asset precompilation completed (%.2fs)", result.Elapsed.Seconds()))

	report.CacheErr = o.store(ctx, cfg, cache)

	if cfg.Sync != nil {
		report.Sync, report.SyncErr = o.sync(ctx, workDir, cfg)
	}

	return report, nil
}

// store caches the output tree and then the source tree it was built from.
// The source entry is dropped first so a partial store can never pair it with
// a stale output; a later run then rebuilds instead of restoring. Failures are
// logged and returned, never fatal.
func (o *Orchestrator) store(ctx context.Context, cfg *domain.Config, cache ports.ContentCache) error {
	_, v := o.telemetry.Record(ctx, string(domain.StageCache))
	o.status(v, "Caching assets")

	if err := cache.Invalidate(cfg.SourceDir); err != nil {
		o.logger.Warn(fmt.Sprintf("Invalidating cached %s failed, not caching: %v", cfg.SourceDir, err))
		v.Complete(err)
		return err
	}

	for _, key := range []string{cfg.OutputDir, cfg.SourceDir} {
		if err := cache.Store(key); err != nil {
			o.logger.Warn(fmt.Sprintf("Caching %s failed: %v", key, err))
			v.Complete(err)
			return err
		}
	}
	v.Complete(nil)
	return nil
}

func (o *Orchestrator) sync(ctx context.Context, workDir string, cfg *domain.Config) (*domain.SyncReport, error) {
	sctx, v := o.telemetry.Record(ctx, string(domain.StageSync))
	o.status(v, "Storing assets on the remote object store")

	output := filepath.Join(workDir, filepath.FromSlash(cfg.OutputDir))
	report, err := o.syncer.Sync(sctx, output, *cfg.Sync)
	if err != nil {
		o.logger.Warn(fmt.Sprintf("Remote sync skipped: %v", err))
		v.Complete(err)
		return nil, err
	}

	total := report.Uploaded + report.Skipped + report.Failed
	if report.Failed > 0 {
		o.logger.Warn(fmt.Sprintf("%d of %d assets failed to upload", report.Failed, total))
		v.Complete(errors.Join(report.Errors...))
		return report, nil
	}
	o.status(v, fmt.Sprintf("Stored %d assets, %d already present", report.Uploaded, report.Skipped))
	v.Complete(nil)
	return report, nil
}

// fail records a failed rebuild: nothing is cached, runtime compilation is
// enabled and remediation guidance is printed.
func (o *Orchestrator) fail(workDir string, cfg *domain.Config, report *domain.Report) *domain.Report {
	report.Outcome = domain.OutcomeRebuildFailed
	o.logger.Info("Precompiling assets failed, enabling runtime asset compilation")

	if err := enableFallback(workDir, cfg); err != nil {
		o.logger.Warn(fmt.Sprintf("Enabling runtime asset compilation failed: %v", err))
	} else if cfg.FallbackPlugin != "" {
		report.FallbackEnabled = true
	}

	o.logger.Info("Please see this article for troubleshooting help:")
	o.logger.Info(domain.TroubleshootingURL)
	return report
}

func enableFallback(workDir string, cfg *domain.Config) error {
	if cfg.FallbackPlugin == "" {
		return nil
	}
	dir := filepath.Join(workDir, filepath.FromSlash(cfg.PluginsDir), cfg.FallbackPlugin)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create plugin directory"), "path", dir)
	}
	file := filepath.Join(dir, domain.FallbackPluginInit)
	if err := os.WriteFile(file, []byte(domain.FallbackPluginSource), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write plugin"), "path", file)
	}
	return nil
}

func (o *Orchestrator) status(v ports.Vertex, msg string) {
	o.logger.Info(msg)
	v.Log(domain.LogLevelInfo, msg)
}

// outputTail returns at most the last n lines of out.
func outputTail(out string, n int) string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
