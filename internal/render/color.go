// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jeranaias/zonedash/internal/layout"
)

// parseHex accepts "rgb", "rrggbb" and either with a leading '#'.
func parseHex(s string) (colorful.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// hexColor converts a settings color to a lipgloss color. It returns nil
// for blank or malformed input.
func hexColor(s string) lipgloss.TerminalColor {
	c, ok := parseHex(s)
	if !ok {
		return nil
	}
	return lipgloss.Color(c.Hex())
}

// textColor returns the foreground for a text style. Dynamic styles
// become adaptive colors that follow the terminal background.
func textColor(ts layout.TextStyle) lipgloss.TerminalColor {
	if ts.Dynamic {
		light, lok := parseHex(ts.Color)
		dark, dok := parseHex(ts.Dark)
		switch {
		case lok && dok:
			return lipgloss.AdaptiveColor{Light: light.Hex(), Dark: dark.Hex()}
		case lok:
			return lipgloss.Color(light.Hex())
		case dok:
			return lipgloss.Color(dark.Hex())
		}
		return nil
	}
	return hexColor(ts.Color)
}

// Font weights drawn bold or faint.
var (
	boldFonts  = map[string]bool{"semibold": true, "bold": true, "heavy": true, "black": true}
	faintFonts = map[string]bool{"ultralight": true, "light": true}
)

// largeText is the point size from which text is drawn bold.
const largeText = 24

func (e *engine) textStyle(ts layout.TextStyle) lipgloss.Style {
	st := e.opts.newStyle()
	if c := textColor(ts); c != nil {
		st = st.Foreground(c)
	}
	switch {
	case boldFonts[ts.Font] || ts.Size >= largeText:
		st = st.Bold(true)
	case faintFonts[ts.Font]:
		st = st.Faint(true)
	case ts.Font == "italic":
		st = st.Italic(true)
	}
	return st
}

// lineColor returns the background of line i of n, blending the fill's
// stops by vertical position. It returns nil for an empty fill.
func (e *engine) lineColor(i, n int) lipgloss.TerminalColor {
	c, ok := e.blend(i, n)
	if !ok {
		return nil
	}
	return lipgloss.Color(c.Hex())
}

type stop struct {
	color colorful.Color
	pos   float64
}

func (e *engine) stops() []stop {
	var out []stop
	for _, s := range e.opts.Fill.Stops {
		hex := s.Color
		if s.Dynamic && e.opts.DarkMode && s.Dark != "" {
			hex = s.Dark
		}
		c, ok := parseHex(hex)
		if !ok {
			continue
		}
		out = append(out, stop{color: c, pos: s.Position})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].pos < out[b].pos })
	return out
}

func (e *engine) blend(i, n int) (colorful.Color, bool) {
	stops := e.stops()
	switch len(stops) {
	case 0:
		return colorful.Color{}, false
	case 1:
		return stops[0].color, true
	}

	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	if t <= stops[0].pos {
		return stops[0].color, true
	}
	for k := 1; k < len(stops); k++ {
		a, b := stops[k-1], stops[k]
		if t <= b.pos {
			span := b.pos - a.pos
			if span <= 0 {
				return b.color, true
			}
			return a.color.BlendRgb(b.color, (t-a.pos)/span).Clamped(), true
		}
	}
	return stops[len(stops)-1].color, true
}
