package config

import (
	"path/filepath"

	"github.com/driftline/cratectl/internal/archive"
)

// Config is the top-level cratectl configuration.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
}

// DefaultsConfig holds default values for operations.
type DefaultsConfig struct {
	// Library is the crate file commands operate on when --library
	// is not given.
	Library string `mapstructure:"library"`
	// DataDir holds cratectl's own state (the recent-library prefs).
	DataDir string `mapstructure:"data_dir"`
}

// ArchiveConfig tunes the compression policy. The full/incremental
// split is a speed/size trade-off and deliberately configurable.
type ArchiveConfig struct {
	FullCompression        string `mapstructure:"full_compression"`
	IncrementalCompression string `mapstructure:"incremental_compression"`
}

// Policy resolves the configured compression policy.
func (c *Config) Policy() (archive.Policy, error) {
	full, err := archive.ParseLevel(c.Archive.FullCompression)
	if err != nil {
		return archive.Policy{}, err
	}
	incr, err := archive.ParseLevel(c.Archive.IncrementalCompression)
	if err != nil {
		return archive.Policy{}, err
	}
	return archive.Policy{Full: full, Incremental: incr}, nil
}

// PrefsPath returns the recent-library preference file location.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.Defaults.DataDir, "recent.yml")
}
