// Package config reads the optional bioindex.yaml settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given.
const DefaultFileName = "bioindex.yaml"

// Config is the in-memory representation of bioindex.yaml. Empty fields
// mean "not set"; command-line flags override any value set here.
type Config struct {
	NodesFile        string `yaml:"nodes_file,omitempty"`
	TechnologiesFile string `yaml:"technologies_file,omitempty"`
	Database         string `yaml:"database,omitempty"`
	LogLevel         string `yaml:"log_level,omitempty"`
	DefaultLimit     int    `yaml:"default_limit,omitempty"`
}

// Load reads the config file at path. An empty path means DefaultFileName
// in the working directory, and a missing default file yields an empty
// Config. A missing file named explicitly is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Relative dataset paths are relative to the config file.
	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.NodesFile, &cfg.TechnologiesFile, &cfg.Database} {
		if *p, err = resolvePath(dir, *p); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Parse decodes and validates YAML config content. Unknown keys are
// rejected so typos surface instead of being ignored.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must be >= 0, got %d", c.DefaultLimit)
	}
	if c.LogLevel != "" {
		if _, err := ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
// An empty name means info.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", name)
	}
	return level, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

func resolvePath(dir, p string) (string, error) {
	if p == "" {
		return "", nil
	}
	p, err := ExpandPath(p)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(dir, p), nil
}
