package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/ddcswitch/internal/app"
	"github.com/bft-labs/ddcswitch/internal/domain"
)

// Default locations and protocol values.
const (
	DefaultSysfsRoot = "/sys/class/drm"
	DefaultDevDir    = "/dev"
	DefaultValue     = 0x0F // DisplayPort 1
	DefaultLogLevel  = "info"
)

// Config holds CLI configuration for ddcswitch.
type Config struct {
	SysfsRoot string
	DevDir    string

	ControlCode int
	Value       int
	Input       string
	Inputs      map[string]int

	Quiescence  time.Duration
	Retries     int
	Concurrency int

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SysfsRoot:   DefaultSysfsRoot,
		DevDir:      DefaultDevDir,
		ControlCode: domain.VCPInputSource,
		Value:       DefaultValue,
		Inputs:      DefaultInputs(),
		Quiescence:  app.DefaultQuiescence,
		Retries:     app.DefaultRetries,
		LogLevel:    DefaultLogLevel,
	}
}

// Validate checks the configuration for errors and resolves Input into Value.
// Code and value ranges are left to the command encoder.
func (c *Config) Validate() error {
	if c.SysfsRoot == "" {
		return fmt.Errorf("sysfs-root is required")
	}
	if c.DevDir == "" {
		return fmt.Errorf("dev-dir is required")
	}
	if c.Quiescence < 0 {
		return fmt.Errorf("quiescence must not be negative")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}

	if c.Input != "" {
		v, err := ResolveInput(c.Inputs, c.Input)
		if err != nil {
			return err
		}
		c.Value = v
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value from a pointer if not nil and flag not changed.
// Zero is a valid value, so file fields are pointers.
func (s *configSetter) setInt(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a decimal or 0x-prefixed string and sets the destination.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(strings.TrimSpace(value), 0, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = int(i)
	return nil
}
