// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/zonedash/internal/layout"
	"github.com/jeranaias/zonedash/internal/widget"
)

// Size is a render target in cells and lines. Zero Lines means the
// content decides the height.
type Size struct {
	Width int
	Lines int
}

// Sizes are the widget preview presets.
var Sizes = map[string]Size{
	"small":  {Width: 31, Lines: 15},
	"medium": {Width: 66, Lines: 15},
	"large":  {Width: 66, Lines: 35},
}

// DefaultSize is used when Options.Size has no width.
var DefaultSize = Sizes[widget.DefaultPreview]

// Options configures a render.
type Options struct {
	Size Size
	// DarkMode selects the dark color of dynamic background stops.
	DarkMode bool
	Fill     widget.Fill
	// Border draws a rounded frame around the widget.
	Border bool
	// Hyperlinks wraps text under a stack URL in OSC 8 links.
	Hyperlinks bool
	// Renderer controls the color profile. Nil uses lipgloss's default.
	Renderer *lipgloss.Renderer
}

func (o Options) newStyle() lipgloss.Style {
	if o.Renderer != nil {
		return o.Renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// Widget renders a created widget with its background and dark mode.
func Widget(w *widget.Widget, opts Options) string {
	opts.Fill = w.Background
	if w.Env != nil {
		opts.DarkMode = w.Env.DarkMode
	}
	return Tree(w.Tree, opts)
}

// Tree renders a compiled tree.
func Tree(t *layout.Tree, opts Options) string {
	if opts.Size.Width <= 0 {
		opts.Size.Width = DefaultSize.Width
	}
	width := opts.Size.Width
	if opts.Border {
		width -= 2
	}

	e := &engine{opts: opts}
	body := e.draw(t.Root, width)
	if opts.Size.Lines > 0 {
		lines := opts.Size.Lines
		if opts.Border {
			lines -= 2
		}
		body = e.fitHeight(body, lines, width)
	}

	out := e.compose(body)
	if opts.Border {
		out = opts.newStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#4B5563"}).
			Render(out)
	}
	return out
}

// compose turns the span grid into styled text, painting the background
// color of each line behind every span.
func (e *engine) compose(b block) string {
	lines := make([]string, len(b))
	for i, l := range b {
		bg := e.lineColor(i, len(b))
		var sb strings.Builder
		for _, sp := range l {
			st := sp.style
			if bg != nil {
				st = st.Background(bg)
			}
			text := st.Render(sp.text)
			if sp.link != "" && e.opts.Hyperlinks {
				text = termenv.Hyperlink(sp.link, text)
			}
			sb.WriteString(text)
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}
