package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rvollmer/esitool/internal/config"
	apperrors "github.com/rvollmer/esitool/internal/errors"
	"github.com/rvollmer/esitool/internal/hexfile"
	"github.com/rvollmer/esitool/internal/logging"
	"github.com/rvollmer/esitool/internal/sii"
	"github.com/rvollmer/esitool/internal/ui"
)

var globalFlags struct {
	config   string
	logLevel string
	noColor  bool
}

// setup loads the config file (or defaults) and builds the logger.
// Every subcommand goes through here first.
func setup() (*config.Config, *logging.Logger, error) {
	cfg := config.Default()
	if globalFlags.config != "" {
		loaded, err := config.Load(globalFlags.config)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	level := cfg.Log.Level
	if globalFlags.logLevel != "" {
		level = globalFlags.logLevel
	}
	log, err := logging.NewLogger(logging.ParseLevel(level), cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}

	if globalFlags.noColor {
		ui.Plain()
	}
	return cfg, log, nil
}

// readImageFile loads a binary or Intel HEX EEPROM image from disk.
func readImageFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if hexfile.IsHex(data) {
		flat, err := hexfile.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode hex image %s: %w", path, err)
		}
		return flat, nil
	}
	return data, nil
}

// decodeImageFile reads and decodes an image, wrapping failures with a
// hint for the user.
func decodeImageFile(path string, log *logging.Logger) (*sii.Image, []byte, error) {
	data, err := readImageFile(path)
	if err != nil {
		return nil, nil, apperrors.WrapImageError(err, path)
	}
	img, err := sii.Decode(data, log)
	if err != nil {
		return nil, nil, apperrors.WrapImageError(err, path)
	}
	return img, data, nil
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" || path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
