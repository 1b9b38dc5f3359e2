// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestColorsDefined(t *testing.T) {
	colors := map[string]lipgloss.AdaptiveColor{
		"Sky":           Sky,
		"Night":         Night,
		"Emerald":       Emerald,
		"Rose":          Rose,
		"Amber":         Amber,
		"SurfaceDim":    SurfaceDim,
		"Overlay":       Overlay,
		"TextPrimary":   TextPrimary,
		"TextSecondary": TextSecondary,
		"TextMuted":     TextMuted,
	}
	for name, c := range colors {
		if c.Light == "" || c.Dark == "" {
			t.Errorf("%s should define both light and dark variants", name)
		}
	}
}

func TestStatusIndicatorsUnique(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
	}
	seen := make(map[string]bool)
	for _, ind := range indicators {
		if ind == "" {
			t.Error("status indicator should be defined")
		}
		if seen[ind] {
			t.Errorf("duplicate status indicator: %q", ind)
		}
		seen[ind] = true
	}
}

func TestRenderFunctions(t *testing.T) {
	tests := []struct {
		name      string
		render    func(string) string
		indicator string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.render("layout saved")
			if !strings.Contains(got, "layout saved") {
				t.Errorf("%q should contain the message", got)
			}
			if !strings.Contains(got, tt.indicator) {
				t.Errorf("%q should contain %q", got, tt.indicator)
			}
		})
	}
}

func TestNewThemeFor(t *testing.T) {
	theme := NewThemeFor(termenv.Ascii, true)
	if !theme.IsDark {
		t.Error("IsDark should follow the argument")
	}
	if theme.ColorProfile != termenv.Ascii {
		t.Errorf("ColorProfile = %v, want Ascii", theme.ColorProfile)
	}

	got := theme.Shortcut("q", "quit")
	if !strings.Contains(got, "q") || !strings.Contains(got, "quit") {
		t.Errorf("Shortcut() = %q", got)
	}
	if theme.HeaderTitle.Render("main") == "" {
		t.Error("HeaderTitle should render")
	}
}
