package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/mindcanvas/pkg/config"
)

func TestNewTheme(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()
	TermProfile = colorprofile.TrueColor

	renderer := lipgloss.NewRenderer(nil)
	dark := NewTheme(renderer, config.ThemeDark)
	if dark.Renderer != renderer {
		t.Error("NewTheme renderer mismatch")
	}
	if dark.Primary != lipgloss.Color(palettePrimary[1]) {
		t.Errorf("dark primary = %v", dark.Primary)
	}

	light := NewTheme(renderer, config.ThemeLight)
	if light.Name != config.ThemeLight || light.Primary != lipgloss.Color(palettePrimary[0]) {
		t.Errorf("light theme = %q %v", light.Name, light.Primary)
	}

	if got := NewTheme(nil, "solarized"); got.Name != config.ThemeDark || got.Renderer == nil {
		t.Errorf("unknown theme should fall back to dark with the default renderer, got %q", got.Name)
	}
}

func TestToastStyleColors(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()
	TermProfile = colorprofile.TrueColor

	theme := NewTheme(lipgloss.NewRenderer(nil), config.ThemeDark)
	tests := []struct {
		kind ToastKind
		want lipgloss.TerminalColor
		icon string
	}{
		{ToastInfo, theme.Info, "ℹ"},
		{ToastSuccess, theme.Success, "✓"},
		{ToastError, theme.Danger, "✗"},
		{ToastWarning, theme.Warning, "⚠"},
	}
	for _, tt := range tests {
		if got := theme.ToastStyle(tt.kind).GetForeground(); got != tt.want {
			t.Errorf("ToastStyle(%d) foreground = %v, want %v", tt.kind, got, tt.want)
		}
		if got := tt.kind.Icon(); got != tt.icon {
			t.Errorf("Icon(%d) = %q, want %q", tt.kind, got, tt.icon)
		}
	}
}

func TestToastStack(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var s toastStack
	for i, msg := range []string{"one", "two", "three", "four"} {
		s.push(Toast{Message: msg, Expires: now.Add(time.Duration(i+1) * time.Second)})
	}
	if s.len() != maxToasts || s.items[0].Message != "two" {
		t.Fatalf("oldest toast should be dropped, got %+v", s.items)
	}

	if !s.expire(now.Add(2500 * time.Millisecond)) {
		t.Fatal("toasts should remain")
	}
	if s.len() != 2 || s.items[0].Message != "three" {
		t.Errorf("after expiry: %+v", s.items)
	}
	if s.expire(now.Add(time.Minute)) || s.len() != 0 {
		t.Error("all toasts should expire")
	}
}

// ── Color profile detection ─────────────────────────────────────────────

func TestColorProfile_Detection(t *testing.T) {
	// TermProfile is set at init(); just verify it's a valid value
	valid := map[colorprofile.Profile]bool{
		colorprofile.Unknown:   true,
		colorprofile.NoTTY:     true,
		colorprofile.ASCII:     true,
		colorprofile.ANSI:      true,
		colorprofile.ANSI256:   true,
		colorprofile.TrueColor: true,
	}
	if !valid[TermProfile] {
		t.Errorf("TermProfile has unexpected value: %d", TermProfile)
	}
}

func TestThemeBg(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	tests := []struct {
		profile colorprofile.Profile
		noColor bool
	}{
		{colorprofile.TrueColor, false},
		{colorprofile.ANSI256, true},
		{colorprofile.ANSI, true},
	}
	for _, tt := range tests {
		TermProfile = tt.profile
		_, isNone := ThemeBg("#282A36").(lipgloss.NoColor)
		if isNone != tt.noColor {
			t.Errorf("ThemeBg under profile %d: NoColor = %v, want %v", tt.profile, isNone, tt.noColor)
		}
	}
}

func TestThemeFg(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	tests := []struct {
		profile colorprofile.Profile
		ansi    bool
	}{
		{colorprofile.TrueColor, false},
		{colorprofile.ANSI256, false},
		{colorprofile.ANSI, true},
		{colorprofile.NoTTY, true},
	}
	for _, tt := range tests {
		TermProfile = tt.profile
		got := ThemeFg("#FF6B6B")
		c, isANSI := got.(lipgloss.ANSIColor)
		if isANSI != tt.ansi {
			t.Errorf("ThemeFg under profile %d: %T", tt.profile, got)
		}
		if isANSI && c != 7 {
			t.Errorf("ThemeFg should fall back to ANSI white (7), got %d", c)
		}
	}
}
