// Package config loads the optional .sdetails.yaml configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/rice8y/sdetails/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".sdetails.yaml"
	// GlobalConfigDir is the directory for global config, under $HOME.
	GlobalConfigDir = ".config/sdetails"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Config holds the tool's settings. Everything has a sensible default; the
// config file only overrides.
type Config struct {
	// Sinfo and Squeue override the external commands, first element is the
	// binary. Useful for wrapper scripts or remote invocation.
	Sinfo  []string `mapstructure:"sinfo" yaml:"sinfo"`
	Squeue []string `mapstructure:"squeue" yaml:"squeue"`

	// Timeout bounds one fetch from the cluster.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Interval is the default watch refresh period when --watch is given
	// without a value source.
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`

	// Color is "auto", "always", or "never".
	Color string `mapstructure:"color" yaml:"color"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Sinfo:    []string{"sinfo"},
		Squeue:   []string{"squeue"},
		Timeout:  10 * time.Second,
		Interval: 5 * time.Second,
		Color:    "auto",
	}
}

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Run 'sdetails init' to create one, or drop the --config flag")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file exists and is valid YAML")
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := validate(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sdetails.yaml in the current directory or any parent
// 3. ~/.config/sdetails/config.yaml (global defaults)
//
// Returns the path, or empty string if no config exists (defaults apply).
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Specified config file not found: "+explicit,
				"Check the path is correct")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; ; dir = filepath.Dir(dir) {
			local := filepath.Join(dir, ConfigFileName)
			if _, err := os.Stat(local); err == nil {
				return local, nil
			}
			if dir == filepath.Dir(dir) {
				break
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if no
// config file exists anywhere.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

func validate(cfg *Config, path string) error {
	if len(cfg.Sinfo) == 0 || cfg.Sinfo[0] == "" {
		return errors.New(errors.ErrConfig,
			"Empty sinfo command in "+path,
			"Set sinfo to a command list, e.g. [sinfo]")
	}
	if len(cfg.Squeue) == 0 || cfg.Squeue[0] == "" {
		return errors.New(errors.ErrConfig,
			"Empty squeue command in "+path,
			"Set squeue to a command list, e.g. [squeue]")
	}
	if cfg.Timeout < 0 || cfg.Interval < 0 {
		return errors.New(errors.ErrConfig,
			"Negative durations in "+path,
			"timeout and interval must be zero or positive, e.g. 10s")
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return errors.New(errors.ErrConfig,
			"Invalid color mode "+cfg.Color+" in "+path,
			"Use auto, always, or never")
	}
	return nil
}
