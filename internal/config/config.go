package config

// Configuration loading and validation for esitool

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rvollmer/esitool/internal/errors"
)

// DeviceConfig controls how the external ethercat tool is invoked.
type DeviceConfig struct {
	Tool      string        `yaml:"tool,omitempty"`       // path to the ethercat binary
	Master    int           `yaml:"master,omitempty"`     // master index passed as --master
	Timeout   time.Duration `yaml:"timeout,omitempty"`    // per-invocation timeout
	ForceSafe bool          `yaml:"force_safe,omitempty"` // refuse sii_write without --force
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // silent, error, info, verbose, debug
	File  string `yaml:"file,omitempty"`  // optional log file path
}

// Config is the esitool.yaml structure.
type Config struct {
	Device DeviceConfig `yaml:"device,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Tool:      "ethercat",
			Master:    0,
			Timeout:   30 * time.Second,
			ForceSafe: true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads and validates a configuration file. Fields left empty fall
// back to the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigError(err, path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("parse yaml: %w", err), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapConfigError(err, path)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Device.Tool == "" {
		return fmt.Errorf("device.tool must not be empty")
	}
	if c.Device.Master < 0 {
		return fmt.Errorf("device.master must not be negative")
	}
	if c.Device.Timeout < 0 {
		return fmt.Errorf("device.timeout must not be negative")
	}
	switch c.Log.Level {
	case "", "silent", "error", "info", "verbose", "debug":
	default:
		return fmt.Errorf("log.level %q unknown (silent, error, info, verbose, debug)", c.Log.Level)
	}
	return nil
}
