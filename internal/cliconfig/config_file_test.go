package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		check      func(t *testing.T, cfg Config)
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				SysfsRoot:   "/tmp/drm",
				DevDir:      "/tmp/dev",
				ControlCode: intPtr(0xD6),
				Value:       intPtr(0x04),
				Quiescence:  "80ms",
				Retries:     intPtr(0),
				Concurrency: intPtr(1),
				LogLevel:    "debug",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.SysfsRoot != "/tmp/drm" || cfg.DevDir != "/tmp/dev" {
					t.Errorf("paths = %s %s", cfg.SysfsRoot, cfg.DevDir)
				}
				if cfg.ControlCode != 0xD6 || cfg.Value != 0x04 {
					t.Errorf("command = 0x%02X=0x%02X", cfg.ControlCode, cfg.Value)
				}
				if cfg.Quiescence != 80*time.Millisecond {
					t.Errorf("Quiescence = %v", cfg.Quiescence)
				}
				if cfg.Retries != 0 || cfg.Concurrency != 1 {
					t.Errorf("Retries = %d, Concurrency = %d", cfg.Retries, cfg.Concurrency)
				}
				if cfg.LogLevel != "debug" {
					t.Errorf("LogLevel = %s", cfg.LogLevel)
				}
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				SysfsRoot: "/config/drm",
				Retries:   intPtr(5),
			},
			changed: map[string]bool{"sysfs-root": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.SysfsRoot != DefaultSysfsRoot {
					t.Errorf("SysfsRoot = %s, want flag value kept", cfg.SysfsRoot)
				}
				if cfg.Retries != 5 {
					t.Errorf("Retries = %d, want 5", cfg.Retries)
				}
			},
		},
		{
			name:       "value flag suppresses file input",
			fileConfig: FileConfig{Input: "hdmi1", Value: intPtr(0x03)},
			changed:    map[string]bool{"value": true},
			check: func(t *testing.T, cfg Config) {
				if cfg.Input != "" || cfg.Value != DefaultValue {
					t.Errorf("Input = %q, Value = 0x%02X; want file ignored", cfg.Input, cfg.Value)
				}
			},
		},
		{
			name: "merges input aliases",
			fileConfig: FileConfig{
				Input:  "Laptop",
				Inputs: map[string]int{"Laptop": 0x1B, "DP1": 0x10},
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				if cfg.Inputs["laptop"] != 0x1B || cfg.Inputs["dp1"] != 0x10 {
					t.Errorf("Inputs = %v", cfg.Inputs)
				}
				if cfg.Inputs["hdmi1"] != 0x11 {
					t.Error("built-in inputs dropped")
				}
				if err := cfg.Validate(); err != nil || cfg.Value != 0x1B {
					t.Errorf("Validate() = %v, Value = 0x%02X", err, cfg.Value)
				}
			},
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{Quiescence: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyFileConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
sysfs_root = "/sys/class/drm"
control_code = 0x60
input = "hdmi1"
quiescence = "60ms"
retries = 3

[inputs]
desk = 0x0f
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.SysfsRoot != "/sys/class/drm" || fc.Input != "hdmi1" || fc.Quiescence != "60ms" {
		t.Errorf("FileConfig = %+v", fc)
	}
	if fc.ControlCode == nil || *fc.ControlCode != 0x60 {
		t.Errorf("ControlCode = %v, want 0x60", fc.ControlCode)
	}
	if fc.Retries == nil || *fc.Retries != 3 {
		t.Errorf("Retries = %v, want 3", fc.Retries)
	}
	if fc.Value != nil {
		t.Errorf("Value = %v, want unset", *fc.Value)
	}
	if fc.Inputs["desk"] != 0x0F {
		t.Errorf("Inputs = %v", fc.Inputs)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFileConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("LoadFileConfig() error = nil for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("retries = [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFileConfig(bad); err == nil {
		t.Error("LoadFileConfig() error = nil for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := DefaultConfigPath()
	if !strings.HasSuffix(got, filepath.Join(".ddcswitch", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %s", got)
	}
	if FileExists(got) {
		t.Error("FileExists() = true for missing file")
	}
}
