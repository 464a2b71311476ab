package domain

import "strings"

// Config is the resolved configuration of one precompile run.
// Paths are relative to the application directory unless stated otherwise.
type Config struct {
	SourceDir    string
	OutputDir    string
	ManifestPath string
	// CacheDir is an absolute path outside the application directory.
	CacheDir string
	Command  []string
	Env      EnvDefaults
	// Required turns an unavailable build task into a hard failure.
	Required       bool
	FallbackPlugin string
	PluginsDir     string
	// Sync is nil when remote sync is not configured.
	Sync            *SyncTarget
	MetricsTextfile string
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig() Config {
	return Config{
		SourceDir:      "app/assets",
		OutputDir:      "public/assets",
		ManifestPath:   "public/assets/manifest.yml",
		CacheDir:       DefaultCachePath(),
		Command:        strings.Fields(DefaultBuildCommand),
		Env:            DefaultEnv(),
		FallbackPlugin: "rails31_enable_runtime_asset_compilation",
		PluginsDir:     "vendor/plugins",
	}
}
