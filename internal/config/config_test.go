package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "esitool.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
device:
  tool: /usr/local/bin/ethercat
  master: 1
  timeout: 5s
log:
  level: verbose
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Device.Tool != "/usr/local/bin/ethercat" {
		t.Errorf("Tool = %q", cfg.Device.Tool)
	}
	if cfg.Device.Master != 1 {
		t.Errorf("Master = %d", cfg.Device.Master)
	}
	if cfg.Device.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Device.Timeout)
	}
	if cfg.Log.Level != "verbose" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoadDefaultsApply(t *testing.T) {
	path := writeConfig(t, `log: {level: debug}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	// Unset device fields keep their defaults.
	if cfg.Device.Tool != "ethercat" {
		t.Errorf("Tool = %q, want default", cfg.Device.Tool)
	}
	if cfg.Device.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default", cfg.Device.Timeout)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "device: [unclosed"},
		{"bad level", "log: {level: shouting}"},
		{"negative master", "device: {master: -1}"},
		{"empty tool", `device: {tool: ""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/esitool.yaml"); err == nil {
		t.Error("Load() should fail for missing file")
	}
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate: %v", err)
	}
}
