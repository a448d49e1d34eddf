// Package app provides configuration management and wiring for ppuview.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ppuview/internal/graphics"
)

// Config holds all application configuration
type Config struct {
	Window WindowConfig `json:"window"`
	Video  VideoConfig  `json:"video"`
	Views  ViewsConfig  `json:"views"`
	Paths  PathsConfig  `json:"paths"`
	Debug  DebugConfig  `json:"debug"`

	// Internal state
	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Scale  int    `json:"scale"` // view pixel multiplier
	Title  string `json:"title"`
}

// VideoConfig contains texture backend configuration
type VideoConfig struct {
	Backend string `json:"backend"` // "ebitengine", "headless", "terminal"
	Filter  string `json:"filter"`  // "nearest", "linear"
}

// ViewsConfig contains the debug view settings
type ViewsConfig struct {
	PatternPalette int  `json:"pattern_palette"` // background palette for pattern tables, 0-3
	Sprite8x16     bool `json:"sprite_8x16"`     // pair pattern tiles the way 8x16 sprites do
	ShowGrid       bool `json:"show_grid"`
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	Output string `json:"output"`
	Dumps  string `json:"dumps"`
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	Verbose     bool `json:"verbose"`
	DumpReports bool `json:"dump_reports"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1024,
			Height: 640,
			Scale:  2,
			Title:  "ppuview",
		},
		Video: VideoConfig{
			Backend: "ebitengine",
			Filter:  "nearest",
		},
		Views: ViewsConfig{
			PatternPalette: 0,
			Sprite8x16:     false,
			ShowGrid:       false,
		},
		Paths: PathsConfig{
			Output: "./out",
			Dumps:  "./dumps",
		},
		Debug: DebugConfig{
			Verbose:     false,
			DumpReports: false,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is
// created with the current values.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c.SaveToFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

// validate rejects unusable values and clamps the rest
func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return &ConfigError{Field: "window", Value: fmt.Sprintf("%dx%d", c.Window.Width, c.Window.Height),
			Err: errors.New("dimensions must be positive")}
	}

	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
	if c.Window.Scale > 8 {
		c.Window.Scale = 8
	}
	if c.Window.Title == "" {
		c.Window.Title = "ppuview"
	}

	bt, err := graphics.ParseBackendType(c.Video.Backend)
	if err != nil {
		return &ConfigError{Field: "video.backend", Value: c.Video.Backend, Err: err}
	}
	c.Video.Backend = string(bt)

	if c.Video.Filter != "linear" {
		c.Video.Filter = "nearest"
	}

	if c.Views.PatternPalette < 0 || c.Views.PatternPalette > 3 {
		c.Views.PatternPalette = 0
	}

	return nil
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/ppuview.json"
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
