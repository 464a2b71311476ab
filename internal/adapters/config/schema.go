package config

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File represents the structure of the precompile.yaml configuration file.
type File struct {
	SourceDir       string            `yaml:"source_dir"`
	OutputDir       string            `yaml:"output_dir"`
	Manifest        string            `yaml:"manifest"`
	CacheDir        string            `yaml:"cache_dir"`
	Command         Command           `yaml:"command"`
	Env             map[string]string `yaml:"env"`
	Required        bool              `yaml:"required"`
	FallbackPlugin  string            `yaml:"fallback_plugin"`
	PluginsDir      string            `yaml:"plugins_dir"`
	MetricsTextfile string            `yaml:"metrics_textfile"`
	Sync            SyncDTO           `yaml:"sync"`
}

// SyncDTO selects and tunes the remote sync.
type SyncDTO struct {
	// File is the credential file, relative to the application directory.
	File        string        `yaml:"file"`
	Environment string        `yaml:"environment"`
	KeyPrefix   *string       `yaml:"key_prefix"`
	AuthURL     string        `yaml:"auth_url"`
	HeadTimeout time.Duration `yaml:"head_timeout"`
	Concurrency int           `yaml:"concurrency"`
	VerifyETag  bool          `yaml:"verify_etag"`
	Disabled    bool          `yaml:"disabled"`
}

// CredentialsDTO is one environment section of the credential file.
type CredentialsDTO struct {
	Username  string `yaml:"username"`
	APIKey    string `yaml:"api_key"`
	Container string `yaml:"container"`
	CDNURL    string `yaml:"cdn_url"`
	AuthURL   string `yaml:"auth_url"`
}

// Command accepts either a shell-style string or a list of arguments.
type Command []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Command) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = strings.Fields(value.Value)
		return nil
	}
	var args []string
	if err := value.Decode(&args); err != nil {
		return err
	}
	*c = args
	return nil
}
