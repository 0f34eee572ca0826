// Package config loads application settings: a TOML preferences file for
// non-secret options and environment variables for credentials and
// overrides.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Version   int             `toml:"version"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Schedule  ScheduleConfig  `toml:"schedule"`
}

type PipelineConfig struct {
	Username   string `toml:"username"`
	TweetLimit int    `toml:"tweet_limit"`
	OutputDir  string `toml:"output_dir"`
	Model      string `toml:"model"`
}

type DashboardConfig struct {
	Addr       string `toml:"addr"`
	RecentRuns int    `toml:"recent_runs"`
}

type ScheduleConfig struct {
	// Enabled turns on periodic pipeline runs while the dashboard server is
	// up.
	Enabled       bool `toml:"enabled"`
	IntervalHours int  `toml:"interval_hours"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Version: 1,
		Pipeline: PipelineConfig{
			Username:   "financialjuice",
			TweetLimit: 50,
			OutputDir:  "./data",
			Model:      "claude-sonnet-4-20250514",
		},
		Dashboard: DashboardConfig{
			Addr:       ":8080",
			RecentRuns: 10,
		},
		Schedule: ScheduleConfig{
			Enabled:       false,
			IntervalHours: 2,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "finjuice"), nil
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config from disk.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// LoadOrDefault loads the config file, creating it with defaults on first
// run. A missing or unreadable file falls back to defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err == nil {
		return cfg
	}
	cfg = Default()
	if os.IsNotExist(err) {
		// First run: persist the defaults so the user has a file to edit.
		_ = cfg.Save()
	}
	return cfg
}
