package domain

import (
	"os"
	"path/filepath"
)

const (
	// DefaultConfigFile is the name of the pipeline configuration file.
	DefaultConfigFile = "precompile.yaml"

	// DefaultSyncConfigFile holds remote store credentials, keyed by environment.
	DefaultSyncConfigFile = "config/rackspace.yml"

	// DefaultBuildCommand is the asset build task.
	DefaultBuildCommand = "bundle exec rake assets:precompile"

	// TroubleshootingURL is shown when precompilation fails.
	TroubleshootingURL = "http://devcenter.heroku.com/articles/rails31_heroku_cedar#troubleshooting"

	// CacheDirName is the directory name used under the user cache dir.
	CacheDirName = "precompile"

	// CacheEnvVar overrides the default cache location.
	CacheEnvVar = "PRECOMPILE_CACHE_DIR"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the cache root: $PRECOMPILE_CACHE_DIR if set,
// otherwise a directory under the user cache dir.
func DefaultCachePath() string {
	if dir := os.Getenv(CacheEnvVar); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, CacheDirName)
}

const (
	// FallbackPluginInit is the entry file written into the fallback plugin directory.
	FallbackPluginInit = "init.rb"

	// FallbackPluginSource turns on runtime asset compilation when loaded.
	FallbackPluginSource = "Rails.application.config.assets.compile = true\n"
)
