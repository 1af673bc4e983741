// Copyright 2024 The flatfs Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config loads the YAML configuration of the flatfs command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bpowers/flatfs/internal/layout"
)

var errInvalid = errors.New("invalid config")

// DeviceConfig selects the block store backing the file system.
type DeviceConfig struct {
	Backend string `yaml:"backend"` // "mmap", "file", "memory" or "billy"
	Path    string `yaml:"path"`
	Size    int64  `yaml:"size"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Output string `yaml:"output"` // "stdout", "stderr", "file", "none"
	File   string `yaml:"file"`   // used if output is "file"
}

// ShellConfig controls the interactive shell.
type ShellConfig struct {
	Color  string `yaml:"color"` // "auto", "always", "never"
	Prompt string `yaml:"prompt"`
}

// Config is the top-level configuration struct.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Logging LoggingConfig `yaml:"logging"`
	Shell   ShellConfig   `yaml:"shell"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Backend: "mmap",
			Path:    "flatfs.img",
			Size:    layout.DeviceSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
		},
		Shell: ShellConfig{
			Color:  "auto",
			Prompt: "flatfs> ",
		},
	}
}

// Load reads configuration from r on top of the defaults.  A nil or empty
// reader yields the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads configuration from a YAML file.  A missing file is the
// same as an empty one.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Validate reports the first setting that can't be used.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Device.Backend) {
	case "mmap", "file", "billy":
		if c.Device.Path == "" {
			return fmt.Errorf("%w: device backend %q needs a path", errInvalid, c.Device.Backend)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: unknown device backend %q", errInvalid, c.Device.Backend)
	}
	if c.Device.Size < layout.ContentStart {
		return fmt.Errorf("%w: device size %d is smaller than the file table (%d)", errInvalid, c.Device.Size, layout.ContentStart)
	}

	switch strings.ToLower(c.Shell.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: unknown color mode %q", errInvalid, c.Shell.Color)
	}
	return nil
}
