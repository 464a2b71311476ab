package domain

import "time"

// Outcome is the terminal state of a single precompile run.
type Outcome string

const (
	// OutcomeSkippedManifest indicates assets were prepared outside this pipeline.
	OutcomeSkippedManifest Outcome = "skipped-manifest-present"
	// OutcomeSkippedCacheHit indicates the sources were unchanged and output was restored from cache.
	OutcomeSkippedCacheHit Outcome = "skipped-cache-hit"
	// OutcomeRebuilt indicates the build task ran and succeeded.
	OutcomeRebuilt Outcome = "rebuilt-success"
	// OutcomeRebuildFailed indicates the build task ran and failed.
	OutcomeRebuildFailed Outcome = "rebuilt-failure"
)

// IsRebuild reports whether the build task was invoked for this outcome.
func (o Outcome) IsRebuild() bool {
	return o == OutcomeRebuilt || o == OutcomeRebuildFailed
}

// Report summarizes one run of the orchestrator.
type Report struct {
	Outcome Outcome
	// Elapsed is the build task wall time. Zero unless the task ran.
	Elapsed time.Duration
	// BuildErr is set when the build task failed or could not start.
	BuildErr error
	// CacheErr collects Store failures after a successful rebuild.
	CacheErr error
	// Sync is nil when no sync was attempted.
	Sync *SyncReport
	// SyncErr is set when the sync session could not be established.
	SyncErr error
	// FallbackEnabled is set when runtime compilation was enabled after a failure.
	FallbackEnabled bool
}

// SyncReport counts the per-object results of a sync.
type SyncReport struct {
	Uploaded int
	Skipped  int
	Failed   int
	Errors   []error
}
