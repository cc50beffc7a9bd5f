// Package config loads and saves node-field settings.
//
// Lookup order when no path is given:
//  1. $NODEFIELD_CONFIG
//  2. ./nodefield.toml
//  3. $XDG_CONFIG_HOME/nodefield/config.toml (~/.config when unset)
//
// Files ending in .yaml or .yml are read as YAML, everything else as TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a config path with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config holds node-field configuration.
type Config struct {
	Window    WindowConfig    `toml:"window" yaml:"window"`
	Nodes     NodesConfig     `toml:"nodes" yaml:"nodes"`
	Tuning    TuningConfig    `toml:"tuning" yaml:"tuning"`
	Pointer   PointerConfig   `toml:"pointer" yaml:"pointer"`
	Autopilot AutopilotConfig `toml:"autopilot" yaml:"autopilot"`
}

// WindowConfig controls the window and tick rate.
type WindowConfig struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
	TPS       int    `toml:"tps" yaml:"tps"`
}

// NodesConfig controls the initial population.
type NodesConfig struct {
	Count int     `toml:"count" yaml:"count"`
	Size  float64 `toml:"size" yaml:"size"`
	Seed  int64   `toml:"seed" yaml:"seed"` // 0 picks a time-based seed
}

// TuningConfig holds the property form values in form units:
// radii in px, attract/repulse/friction in percent.
type TuningConfig struct {
	Near     float64 `toml:"near" yaml:"near"`
	Far      float64 `toml:"far" yaml:"far"`
	Falloff  float64 `toml:"falloff" yaml:"falloff"`
	Attract  float64 `toml:"attract" yaml:"attract"`
	Repulse  float64 `toml:"repulse" yaml:"repulse"`
	Friction float64 `toml:"friction" yaml:"friction"`
}

// PointerConfig is the blast applied on every mouse move.
type PointerConfig struct {
	Force  float64 `toml:"force" yaml:"force"`
	Radius float64 `toml:"radius" yaml:"radius"`
}

// AutopilotConfig drives a noise-following virtual pointer while the mouse is idle.
type AutopilotConfig struct {
	Enabled    bool    `toml:"enabled" yaml:"enabled"`
	IdleFrames int     `toml:"idle_frames" yaml:"idle_frames"`
	Speed      float64 `toml:"speed" yaml:"speed"`
	Seed       int64   `toml:"seed" yaml:"seed"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Window:    WindowConfig{Title: "Node Field", Width: 1024, Height: 768, Resizable: true, TPS: 60},
		Nodes:     NodesConfig{Count: 40, Size: 5},
		Tuning:    DefaultTuning(),
		Pointer:   PointerConfig{Force: 8, Radius: 120},
		Autopilot: AutopilotConfig{Enabled: false, IdleFrames: 180, Speed: 0.004, Seed: 7},
	}
}

// DefaultTuning matches the node defaults expressed in form units.
func DefaultTuning() TuningConfig {
	return TuningConfig{Near: 40, Far: 700, Falloff: 800, Attract: 0.5, Repulse: 10, Friction: 20}
}

// applyDefaults repairs values a file set out of range.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	if c.Window.Width <= 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = d.Window.Height
	}
	if c.Window.TPS <= 0 {
		c.Window.TPS = d.Window.TPS
	}
	if c.Nodes.Size <= 0 {
		c.Nodes.Size = d.Nodes.Size
	}
	if c.Pointer.Radius <= 0 {
		c.Pointer.Radius = d.Pointer.Radius
	}
	if c.Autopilot.IdleFrames <= 0 {
		c.Autopilot.IdleFrames = d.Autopilot.IdleFrames
	}
	if c.Autopilot.Speed <= 0 {
		c.Autopilot.Speed = d.Autopilot.Speed
	}
}

// Dir returns the per-user config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "nodefield")
}

// FindPath returns the first existing config file, or "".
func FindPath() string {
	candidates := []string{
		os.Getenv("NODEFIELD_CONFIG"),
		"nodefield.toml",
		filepath.Join(Dir(), "config.toml"),
	}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

type format int

const (
	formatTOML format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", "":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads path. An empty path searches the default locations; a missing
// file yields defaults. It returns the path actually read.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindPath()
		if path == "" {
			return Default(), "", nil
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), path, nil
	}
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes data using the format implied by name's extension.
func Parse(data []byte, name string) (*Config, error) {
	f, err := formatOf(name)
	if err != nil {
		return nil, err
	}

	// Keys the file leaves out keep their defaults.
	cfg := *Default()
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Encode renders cfg in the format implied by name's extension.
func Encode(cfg *Config, name string) ([]byte, error) {
	f, err := formatOf(name)
	if err != nil {
		return nil, err
	}
	if f == formatYAML {
		return yaml.Marshal(cfg)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	data, err := Encode(cfg, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
