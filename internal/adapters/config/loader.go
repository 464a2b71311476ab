// Package config loads the precompile configuration and sync credentials.
package config

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads file (default precompile.yaml) from dir and the sync credential
// file it points to. A missing default config file yields the defaults; an
// explicitly named file must exist. A missing credential file disables sync.
func (l *Loader) Load(dir, file string) (*domain.Config, error) {
	explicit := file != ""
	if !explicit {
		file = domain.DefaultConfigFile
	}

	var raw File
	found, err := readYAML(resolve(dir, file), &raw)
	if err != nil {
		return nil, err
	}
	if !found && explicit {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, "config file not found"), "path", resolve(dir, file))
	}

	cfg := apply(domain.DefaultConfig(), &raw)

	target, err := l.loadSync(dir, cfg.OutputDir, raw.Sync)
	if err != nil {
		return nil, err
	}
	cfg.Sync = target

	return &cfg, nil
}

func apply(cfg domain.Config, raw *File) domain.Config {
	if raw.SourceDir != "" {
		cfg.SourceDir = cleanRel(raw.SourceDir)
	}
	if raw.OutputDir != "" {
		cfg.OutputDir = cleanRel(raw.OutputDir)
		if raw.Manifest == "" {
			cfg.ManifestPath = path.Join(cfg.OutputDir, "manifest.yml")
		}
	}
	if raw.Manifest != "" {
		cfg.ManifestPath = cleanRel(raw.Manifest)
	}
	if raw.CacheDir != "" {
		cfg.CacheDir = raw.CacheDir
	}
	if len(raw.Command) > 0 {
		cfg.Command = raw.Command
	}
	if len(raw.Env) > 0 {
		env := maps.Clone(cfg.Env)
		maps.Copy(env, raw.Env)
		cfg.Env = env
	}
	cfg.Required = raw.Required
	if raw.FallbackPlugin != "" {
		cfg.FallbackPlugin = raw.FallbackPlugin
	}
	if raw.PluginsDir != "" {
		cfg.PluginsDir = cleanRel(raw.PluginsDir)
	}
	cfg.MetricsTextfile = raw.MetricsTextfile
	return cfg
}

func (l *Loader) loadSync(dir, outputDir string, raw SyncDTO) (*domain.SyncTarget, error) {
	if raw.Disabled {
		return nil, nil
	}

	file := raw.File
	if file == "" {
		file = domain.DefaultSyncConfigFile
	}
	env := raw.Environment
	if env == "" {
		env = domain.DefaultSyncEnvironment
	}

	var sections map[string]CredentialsDTO
	found, err := readYAML(resolve(dir, file), &sections)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	creds, ok := sections[env]
	if !ok {
		l.logger.Warn("No '" + env + "' section in " + file + ", skipping remote sync")
		return nil, nil
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"username", creds.Username},
		{"api_key", creds.APIKey},
		{"container", creds.Container},
		{"cdn_url", creds.CDNURL},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		err := zerr.With(zerr.Wrap(domain.ErrSyncConfigInvalid, "missing credential fields"), "path", file)
		err = zerr.With(err, "environment", env)
		return nil, zerr.With(err, "missing", strings.Join(missing, ","))
	}

	prefix := path.Base(outputDir)
	if raw.KeyPrefix != nil {
		prefix = strings.Trim(*raw.KeyPrefix, "/")
	}

	authURL := raw.AuthURL
	if authURL == "" {
		authURL = creds.AuthURL
	}

	target := domain.SyncTarget{
		Username:    creds.Username,
		APIKey:      creds.APIKey,
		Container:   creds.Container,
		Endpoint:    strings.TrimSuffix(creds.CDNURL, "/"),
		AuthURL:     authURL,
		KeyPrefix:   prefix,
		HeadTimeout: raw.HeadTimeout,
		Concurrency: raw.Concurrency,
		VerifyETag:  raw.VerifyETag,
	}.WithDefaults()
	return &target, nil
}

// readYAML decodes the file at p into out. It reports false if the file does not exist.
func readYAML(p string, out any) (bool, error) {
	data, err := os.ReadFile(p) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", p)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", p)
	}
	return true, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

func cleanRel(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
