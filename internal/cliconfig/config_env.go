package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (DDCSWITCH_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("sysfs-root", os.Getenv("DDCSWITCH_SYSFS_ROOT"), &cfg.SysfsRoot)
	s.setString("dev-dir", os.Getenv("DDCSWITCH_DEV_DIR"), &cfg.DevDir)
	s.setString("log-level", os.Getenv("DDCSWITCH_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("code", os.Getenv("DDCSWITCH_CONTROL_CODE"), &cfg.ControlCode); err != nil {
		return err
	}
	if !changed["value"] {
		if err := s.setIntFromString("value", os.Getenv("DDCSWITCH_VALUE"), &cfg.Value); err != nil {
			return err
		}
		// A value from the environment replaces an input named in the file.
		if os.Getenv("DDCSWITCH_VALUE") != "" && !changed["input"] {
			cfg.Input = ""
		}
		s.setString("input", os.Getenv("DDCSWITCH_INPUT"), &cfg.Input)
	}
	if err := s.setIntFromString("retries", os.Getenv("DDCSWITCH_RETRIES"), &cfg.Retries); err != nil {
		return err
	}
	if err := s.setIntFromString("concurrency", os.Getenv("DDCSWITCH_CONCURRENCY"), &cfg.Concurrency); err != nil {
		return err
	}

	if err := s.setDuration("quiescence", os.Getenv("DDCSWITCH_QUIESCENCE"), &cfg.Quiescence); err != nil {
		return err
	}

	return nil
}
