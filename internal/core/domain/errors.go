package domain

import "go.trai.ch/zerr"

var (
	// ErrCacheMiss is returned by Load when no entry exists for the requested path.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrStorage is returned when the cache backing store cannot be read or written.
	ErrStorage = zerr.New("cache storage failure")

	// ErrInvalidCacheKey is returned when a cache key is absolute or escapes the workspace.
	ErrInvalidCacheKey = zerr.New("invalid cache key")

	// ErrBuildTaskFailed is returned when the external build task exits unsuccessfully.
	ErrBuildTaskFailed = zerr.New("asset build task failed")

	// ErrBuildTaskUnavailable is returned when the external build task cannot be started.
	ErrBuildTaskUnavailable = zerr.New("asset build task unavailable")

	// ErrNoBuildCommand is returned when the configured build command is empty.
	// It matches ErrBuildTaskUnavailable.
	ErrNoBuildCommand = zerr.Wrap(ErrBuildTaskUnavailable, "no build command configured")

	// ErrSyncAuth is returned when the remote store session exchange fails.
	ErrSyncAuth = zerr.New("remote store authentication failed")

	// ErrSyncTransfer is returned when a single object upload fails.
	ErrSyncTransfer = zerr.New("remote object upload failed")

	// ErrSyncHead is returned when an existence check neither confirms nor rules out presence.
	ErrSyncHead = zerr.New("remote existence check failed")

	// ErrConfigReadFailed is returned when a config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrSyncConfigInvalid is returned when the sync credential file lacks required fields.
	ErrSyncConfigInvalid = zerr.New("invalid sync configuration")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics")
)
