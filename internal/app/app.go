// Package app implements the application layer for precompile.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports"
	"go.trai.ch/precompile/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	cacheOpener  ports.CacheOpener
	orchestrator *orchestrator.Orchestrator
	logger       ports.Logger
	telemetry    ports.Telemetry
	metrics      ports.Metrics
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	opener ports.CacheOpener,
	orch *orchestrator.Orchestrator,
	logger ports.Logger,
	telemetry ports.Telemetry,
	metrics ports.Metrics,
) *App {
	return &App{
		configLoader: loader,
		cacheOpener:  opener,
		orchestrator: orch,
		logger:       logger,
		telemetry:    telemetry,
		metrics:      metrics,
	}
}

// RunOptions carries command-line overrides for a run.
type RunOptions struct {
	// Dir is the application directory. Empty means the working directory.
	Dir string
	// ConfigFile overrides precompile.yaml.
	ConfigFile string
	// CacheDir overrides the configured cache root.
	CacheDir string
	// Required makes an unavailable build task fatal.
	Required bool
}

// CacheStatus describes one cached tree.
type CacheStatus struct {
	Key   string
	Path  string
	Entry *domain.CacheEntry
}

// Run performs one precompile pass and flushes metrics.
func (a *App) Run(ctx context.Context, opts RunOptions) (*domain.Report, error) {
	dir, cfg, cache, err := a.prepare(opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := a.telemetry.Close(); err != nil {
			a.logger.Warn(fmt.Sprintf("Closing telemetry failed: %v", err))
		}
	}()

	report, runErr := a.orchestrator.Run(ctx, dir, cfg, cache)

	if err := a.metrics.Flush(cfg.MetricsTextfile); err != nil {
		a.logger.Warn(fmt.Sprintf("Writing metrics failed: %v", err))
	}

	if runErr != nil {
		return report, zerr.Wrap(runErr, "asset precompilation aborted")
	}
	return report, nil
}

// CacheStatus reports what is cached for the source and output trees.
func (a *App) CacheStatus(opts RunOptions) ([]CacheStatus, error) {
	_, cfg, cache, err := a.prepare(opts)
	if err != nil {
		return nil, err
	}

	keys := []string{cfg.SourceDir, cfg.OutputDir}
	statuses := make([]CacheStatus, 0, len(keys))
	for _, key := range keys {
		entry, err := cache.Entry(key)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, CacheStatus{Key: key, Path: cache.Path(key), Entry: entry})
	}
	return statuses, nil
}

func (a *App) prepare(opts RunOptions) (string, *domain.Config, ports.ContentCache, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, nil, zerr.With(zerr.Wrap(err, "failed to resolve application directory"), "dir", opts.Dir)
	}

	cfg, err := a.configLoader.Load(dir, opts.ConfigFile)
	if err != nil {
		return "", nil, nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.CacheDir != "" {
		cfg.CacheDir = opts.CacheDir
	}
	if opts.Required {
		cfg.Required = true
	}

	cache, err := a.cacheOpener.Open(cfg.CacheDir, dir)
	if err != nil {
		return "", nil, nil, zerr.Wrap(err, "failed to open cache")
	}
	return dir, cfg, cache, nil
}
