package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	SysfsRoot   string         `toml:"sysfs_root"`
	DevDir      string         `toml:"dev_dir"`
	ControlCode *int           `toml:"control_code"`
	Value       *int           `toml:"value"`
	Input       string         `toml:"input"`
	Quiescence  string         `toml:"quiescence"`
	Retries     *int           `toml:"retries"`
	Concurrency *int           `toml:"concurrency"`
	LogLevel    string         `toml:"log_level"`
	Inputs      map[string]int `toml:"inputs"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.ddcswitch/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".ddcswitch", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("sysfs-root", fc.SysfsRoot, &cfg.SysfsRoot)
	s.setString("dev-dir", fc.DevDir, &cfg.DevDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("code", fc.ControlCode, &cfg.ControlCode)
	s.setInt("retries", fc.Retries, &cfg.Retries)
	s.setInt("concurrency", fc.Concurrency, &cfg.Concurrency)

	// An explicit --value overrides an input named in the file.
	if !changed["value"] {
		s.setInt("value", fc.Value, &cfg.Value)
		s.setString("input", fc.Input, &cfg.Input)
	}

	if err := s.setDuration("quiescence", fc.Quiescence, &cfg.Quiescence); err != nil {
		return err
	}

	cfg.Inputs = mergeInputs(cfg.Inputs, fc.Inputs)
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
