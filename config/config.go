// Package config loads interpreter settings from a YAML file.
package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v3"
)

// Name of the settings file looked up in the home directory.
const FileName = ".treeloxrc.yaml"

type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Color       bool   `yaml:"color"`
	// Print call frames for runtime errors and error sources for I/O errors.
	Trace        bool   `yaml:"trace"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	CPUProfile   string `yaml:"cpu_profile"`
	Verbose      bool   `yaml:"verbose"`
}

func Default() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".tree_lox_history")
	}

	return &Config{
		Prompt:       "> ",
		HistoryFile:  history,
		MaxCallDepth: 10000,
	}
}

// DefaultPath returns the settings file in the home directory, or "" if
// there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads the settings at path over the defaults. An empty path means
// DefaultPath, which is allowed to be missing; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, tracerr.Wrap(err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, tracerr.Errorf("config: parse %s: %v", path, err)
	}

	if cfg.MaxCallDepth <= 0 {
		return nil, tracerr.Errorf("config: %s: max_call_depth must be positive", path)
	}
	return cfg, nil
}
