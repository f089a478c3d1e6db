// Package config handles loading and saving mindcanvas configuration.
//
// Configuration follows the XDG Base Directory layout:
//   - Config:  ~/.config/mindcanvas/config.yaml
//   - State:   ~/.local/state/mindcanvas/ (auto-save database)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "mindcanvas"

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme         string        `yaml:"theme,omitempty"`          // dark, light
	ToastDuration time.Duration `yaml:"toast_duration,omitempty"` // How long a toast stays up
	ShowToolbar   bool          `yaml:"show_toolbar"`
}

// CanvasConfig sizes the drawing surface inside the terminal.
type CanvasConfig struct {
	MarginX    float64 `yaml:"margin_x,omitempty"`
	MarginY    float64 `yaml:"margin_y,omitempty"`
	CellWidth  float64 `yaml:"cell_width,omitempty"`  // Canvas pixels per terminal column
	CellHeight float64 `yaml:"cell_height,omitempty"` // Canvas pixels per terminal row
}

// LabelsConfig holds node label validation rules.
type LabelsConfig struct {
	MinLength      int    `yaml:"min_length,omitempty"`
	MaxLength      int    `yaml:"max_length,omitempty"`
	Pattern        string `yaml:"pattern,omitempty"`
	PatternMessage string `yaml:"pattern_message,omitempty"`
}

// AutosaveConfig controls background snapshots.
type AutosaveConfig struct {
	Enabled bool          `yaml:"enabled"`
	Delay   time.Duration `yaml:"delay,omitempty"`
	Keep    int           `yaml:"keep,omitempty"`    // Snapshots kept per map
	DBPath  string        `yaml:"db_path,omitempty"` // Defaults to the state dir
}

// ExportConfig controls where exports land.
type ExportConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// Config is the top-level configuration for mindcanvas.
type Config struct {
	UI       UIConfig       `yaml:"ui"`
	Canvas   CanvasConfig   `yaml:"canvas"`
	Labels   LabelsConfig   `yaml:"labels"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Export   ExportConfig   `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Theme:         ThemeDark,
			ToastDuration: 3 * time.Second,
			ShowToolbar:   true,
		},
		Canvas: CanvasConfig{
			MarginX:    20,
			MarginY:    100,
			CellWidth:  8,
			CellHeight: 16,
		},
		Labels: LabelsConfig{
			MinLength: 1,
		},
		Autosave: AutosaveConfig{
			Enabled: true,
			Delay:   2 * time.Second,
			Keep:    20,
		},
	}
}

// ConfigDir returns the XDG config directory for mindcanvas.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for mindcanvas.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize replaces nonsense values with defaults and expands ~ in paths.
func (c *Config) normalize() {
	def := DefaultConfig()
	switch strings.ToLower(c.UI.Theme) {
	case ThemeLight:
		c.UI.Theme = ThemeLight
	default:
		c.UI.Theme = ThemeDark
	}
	if c.UI.ToastDuration <= 0 {
		c.UI.ToastDuration = def.UI.ToastDuration
	}
	if c.Canvas.CellWidth <= 0 {
		c.Canvas.CellWidth = def.Canvas.CellWidth
	}
	if c.Canvas.CellHeight <= 0 {
		c.Canvas.CellHeight = def.Canvas.CellHeight
	}
	if c.Canvas.MarginX < 0 {
		c.Canvas.MarginX = 0
	}
	if c.Canvas.MarginY < 0 {
		c.Canvas.MarginY = 0
	}
	if c.Autosave.Delay <= 0 {
		c.Autosave.Delay = def.Autosave.Delay
	}
	if c.Autosave.Keep <= 0 {
		c.Autosave.Keep = def.Autosave.Keep
	}
	c.Autosave.DBPath = expandHome(c.Autosave.DBPath)
	c.Export.Dir = expandHome(c.Export.Dir)
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ToggleTheme flips between dark and light and returns the new theme.
func (c *Config) ToggleTheme() string {
	if c.UI.Theme == ThemeLight {
		c.UI.Theme = ThemeDark
	} else {
		c.UI.Theme = ThemeLight
	}
	return c.UI.Theme
}

// AutosavePath returns the auto-save database path, falling back to the
// state directory. Empty if neither is known.
func (c Config) AutosavePath() string {
	if c.Autosave.DBPath != "" {
		return c.Autosave.DBPath
	}
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "autosave.db")
}

// ExportDir returns the export directory, defaulting to the working directory.
func (c Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return "."
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
