// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - What the attached terminal can do for widget output.
//
// Widget colors are dropped for piped output and when NO_COLOR is set;
// FORCE_COLOR keeps them on a pipe.

package cli

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jeranaias/zonedash/internal/config"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY reports whether stdin is a terminal, so prompts can be shown.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether widget output goes to a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Replaced in tests.
var (
	isTTY             = IsTTY
	isStdoutTTY       = IsStdoutTTY
	hasDarkBackground = termenv.HasDarkBackground
)

// RequiresTTY fails with TTYRequiredError when stdin is not a terminal.
func RequiresTTY(operation string) error {
	if isTTY() {
		return nil
	}
	return &TTYRequiredError{Operation: operation}
}

// TTYRequiredError is returned by interactive commands run without a
// terminal on stdin.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation == "" {
		return "stdin is not a terminal; interactive input not available"
	}
	return "stdin is not a terminal; cannot " + e.Operation + " interactively"
}

// =============================================================================
// WIDTH
// =============================================================================

// Reference text width bounds in cells.
const (
	DefaultTerminalWidth = 80
	MinTerminalWidth     = 40
)

// GetTerminalWidth returns the stdout width clamped to MinTerminalWidth,
// or DefaultTerminalWidth when stdout is not a terminal.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil || width <= 0:
		return DefaultTerminalWidth
	case width < MinTerminalWidth:
		return MinTerminalWidth
	default:
		return width
	}
}

// =============================================================================
// COLOR
// =============================================================================

var colorState struct {
	once    sync.Once
	enabled bool
}

// colorDecision applies NO_COLOR, then FORCE_COLOR, then the TTY check.
func colorDecision(getenv func(string) string, tty func() bool) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if getenv("FORCE_COLOR") != "" {
		return true
	}
	return tty()
}

// ColorsEnabled reports whether output may carry ANSI colors. The decision
// is made once per process.
func ColorsEnabled() bool {
	colorState.once.Do(func() {
		colorState.enabled = colorDecision(os.Getenv, isStdoutTTY)
	})
	return colorState.enabled
}

// ForceColorsEnabled pins the color decision. Tests only.
func ForceColorsEnabled(enabled bool) {
	colorState.once = sync.Once{}
	colorState.once.Do(func() {})
	colorState.enabled = enabled
}

// GetColorProfile returns termenv's detected profile, or Ascii when colors
// are disabled.
func GetColorProfile() termenv.Profile {
	if ColorsEnabled() {
		return termenv.ColorProfile()
	}
	return termenv.Ascii
}

// NewRenderer returns a lipgloss renderer for widget output on w.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(GetColorProfile())
	return r
}

// ResolveDark maps a render.dark setting to dark mode. "auto" asks the
// terminal for its background, and is light when stdout is piped.
func ResolveDark(mode string) bool {
	switch mode {
	case config.DarkOn:
		return true
	case config.DarkOff:
		return false
	}
	return isStdoutTTY() && hasDarkBackground()
}
