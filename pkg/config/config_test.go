package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.Theme != ThemeDark {
		t.Errorf("expected default theme 'dark', got %q", cfg.UI.Theme)
	}
	if cfg.UI.ToastDuration != 3*time.Second {
		t.Errorf("expected toast duration 3s, got %v", cfg.UI.ToastDuration)
	}
	if cfg.Canvas.MarginX != 20 || cfg.Canvas.MarginY != 100 {
		t.Errorf("expected margins 20x100, got %vx%v", cfg.Canvas.MarginX, cfg.Canvas.MarginY)
	}
	if cfg.Labels.MaxLength != 0 {
		t.Errorf("expected unlimited label length, got %d", cfg.Labels.MaxLength)
	}
	if !cfg.Autosave.Enabled || cfg.Autosave.Delay != 2*time.Second {
		t.Errorf("expected autosave on after 2s, got %+v", cfg.Autosave)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.Theme != ThemeDark {
		t.Errorf("expected default config, got theme %q", cfg.UI.Theme)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
ui:
  theme: light
  toast_duration: 5s

canvas:
  margin_x: 0
  cell_height: 20

labels:
  max_length: 12
  pattern: '^[A-Za-z ]+$'

autosave:
  enabled: false
  db_path: ~/maps/autosave.db

export:
  dir: /tmp/exports
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.UI.Theme != ThemeLight {
		t.Errorf("expected theme 'light', got %q", cfg.UI.Theme)
	}
	if cfg.UI.ToastDuration != 5*time.Second {
		t.Errorf("expected toast duration 5s, got %v", cfg.UI.ToastDuration)
	}
	if !cfg.UI.ShowToolbar {
		t.Error("expected show_toolbar default to survive a partial file")
	}
	if cfg.Canvas.MarginX != 0 || cfg.Canvas.MarginY != 100 {
		t.Errorf("expected margins 0x100, got %vx%v", cfg.Canvas.MarginX, cfg.Canvas.MarginY)
	}
	if cfg.Canvas.CellHeight != 20 || cfg.Canvas.CellWidth != 8 {
		t.Errorf("expected cells 8x20, got %vx%v", cfg.Canvas.CellWidth, cfg.Canvas.CellHeight)
	}
	if cfg.Labels.MinLength != 1 || cfg.Labels.MaxLength != 12 || cfg.Labels.Pattern == "" {
		t.Errorf("unexpected labels %+v", cfg.Labels)
	}
	if cfg.Autosave.Enabled {
		t.Error("expected autosave disabled")
	}
	// Path should have ~ expanded
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "maps/autosave.db"); cfg.AutosavePath() != want {
		t.Errorf("expected expanded path %q, got %q", want, cfg.AutosavePath())
	}
	if cfg.ExportDir() != "/tmp/exports" {
		t.Errorf("expected export dir '/tmp/exports', got %q", cfg.ExportDir())
	}
}

func TestLoadFrom_NormalizesBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
ui:
  theme: purple
  toast_duration: -1s
canvas:
  cell_width: 0
  margin_y: -5
autosave:
  keep: 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != ThemeDark {
		t.Errorf("unknown theme should fall back to dark, got %q", cfg.UI.Theme)
	}
	if cfg.UI.ToastDuration != 3*time.Second {
		t.Errorf("expected toast duration reset to 3s, got %v", cfg.UI.ToastDuration)
	}
	if cfg.Canvas.CellWidth != 8 || cfg.Canvas.MarginY != 0 {
		t.Errorf("unexpected canvas %+v", cfg.Canvas)
	}
	if cfg.Autosave.Keep != 20 {
		t.Errorf("expected keep reset to 20, got %d", cfg.Autosave.Keep)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.Theme = ThemeLight
	cfg.UI.ShowToolbar = false
	cfg.Autosave.Delay = 750 * time.Millisecond
	cfg.Labels.Pattern = `^\S.*$`

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if loaded.UI.Theme != ThemeLight {
		t.Errorf("expected 'light', got %q", loaded.UI.Theme)
	}
	if loaded.UI.ShowToolbar {
		t.Error("expected toolbar hidden after round trip")
	}
	if loaded.Autosave.Delay != 750*time.Millisecond {
		t.Errorf("expected delay 750ms, got %v", loaded.Autosave.Delay)
	}
	if loaded.Labels.Pattern != `^\S.*$` {
		t.Errorf("pattern mangled: %q", loaded.Labels.Pattern)
	}
}

func TestToggleTheme(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ToggleTheme(); got != ThemeLight {
		t.Errorf("expected light, got %q", got)
	}
	if got := cfg.ToggleTheme(); got != ThemeDark {
		t.Errorf("expected dark, got %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "mindcanvas")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
	if ConfigPath() != filepath.Join(expected, "config.yaml") {
		t.Errorf("unexpected config path %q", ConfigPath())
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got := StateDir()
	expected := filepath.Join(dir, "mindcanvas")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}

	cfg := DefaultConfig()
	if cfg.AutosavePath() != filepath.Join(expected, "autosave.db") {
		t.Errorf("unexpected autosave path %q", cfg.AutosavePath())
	}
}

func TestExportDir_DefaultsToWorkingDir(t *testing.T) {
	if got := DefaultConfig().ExportDir(); got != "." {
		t.Errorf("expected '.', got %q", got)
	}
}
