// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/jeranaias/zonedash/internal/layout"
)

// Points per cell and per line.
const (
	pointsPerCell = 5
	pointsPerLine = 10
)

func cellsX(points int) int {
	if points <= 0 {
		return 0
	}
	return (points + pointsPerCell/2) / pointsPerCell
}

func cellsY(points int) int {
	if points <= 0 {
		return 0
	}
	return (points + pointsPerLine/2) / pointsPerLine
}

// =============================================================================
// SPANS
// =============================================================================

// span is a run of text drawn with one style.
type span struct {
	text  string
	style lipgloss.Style
	link  string
}

// line is a row of spans; block is a stack of lines of equal width.
type (
	line  []span
	block []line
)

func (l line) width() int {
	w := 0
	for _, sp := range l {
		w += runewidth.StringWidth(sp.text)
	}
	return w
}

type engine struct {
	opts Options
}

func (e *engine) blank(w int) line {
	if w <= 0 {
		return nil
	}
	return line{{text: strings.Repeat(" ", w), style: e.opts.newStyle()}}
}

// fit pads or cuts l to exactly w cells.
func (e *engine) fit(l line, w int) line {
	out := make(line, 0, len(l)+1)
	used := 0
	for _, sp := range l {
		sw := runewidth.StringWidth(sp.text)
		if used+sw > w {
			sp.text = runewidth.Truncate(sp.text, w-used, "")
			sw = runewidth.StringWidth(sp.text)
		}
		if sw > 0 {
			out = append(out, sp)
			used += sw
		}
		if used >= w {
			break
		}
	}
	return append(out, e.blank(w-used)...)
}

// fitHeight pads b with blank lines, or cuts it, to n lines of width w.
func (e *engine) fitHeight(b block, n, w int) block {
	if len(b) >= n {
		return b[:n]
	}
	for len(b) < n {
		b = append(b, e.blank(w))
	}
	return b
}

// =============================================================================
// LAYOUT
// =============================================================================

// draw lays out n in exactly w cells.
func (e *engine) draw(n *layout.Node, w int) block {
	if w < 0 {
		w = 0
	}
	top, bottom := cellsY(n.Padding.Top), cellsY(n.Padding.Bottom)
	left, right := cellsX(n.Padding.Left), cellsX(n.Padding.Right)
	if left+right >= w {
		left, right = 0, 0
	}
	inner := w - left - right

	var body block
	switch {
	case n.Kind == layout.KindSpacer:
		return nil
	case n.Kind == layout.KindText:
		body = e.text(n, inner)
	case n.Kind == layout.KindRow:
		body = e.horizontal(n, inner, true)
	case n.Axis == layout.Horizontal:
		body = e.horizontal(n, inner, false)
	default:
		body = e.vertical(n, inner)
	}
	if n.Kind == layout.KindRow && n.Height > 0 {
		body = e.fitHeight(body, cellsY(n.Height), inner)
	}
	if len(body) == 0 {
		return nil
	}

	out := make(block, 0, top+len(body)+bottom)
	for i := 0; i < top; i++ {
		out = append(out, e.blank(w))
	}
	for _, l := range body {
		padded := append(e.blank(left), e.fit(l, inner)...)
		out = append(out, append(padded, e.blank(right)...))
	}
	for i := 0; i < bottom; i++ {
		out = append(out, e.blank(w))
	}

	if n.URL != "" {
		for _, l := range out {
			for i := range l {
				l[i].link = n.URL
			}
		}
	}
	return out
}

func (e *engine) vertical(n *layout.Node, w int) block {
	var out block
	for _, c := range n.Children {
		if c.Kind == layout.KindSpacer {
			for i := 0; i < cellsY(c.Length); i++ {
				out = append(out, e.blank(w))
			}
			continue
		}
		out = append(out, e.draw(c, w)...)
	}
	return out
}

// horizontal lays children side by side. In a row (stretch) children
// without a fixed width share the space evenly; in a stack they take
// their natural width and flexible spacers absorb the rest.
func (e *engine) horizontal(n *layout.Node, w int, stretch bool) block {
	widths := make([]int, len(n.Children))
	remaining := w
	var flex []int

	for i, c := range n.Children {
		switch {
		case c.Kind == layout.KindSpacer && c.Flexible:
			flex = append(flex, i)
		case c.Kind == layout.KindSpacer:
			widths[i] = min(cellsX(c.Length), remaining)
			remaining -= widths[i]
		case stretch && c.Width > 0:
			widths[i] = min(cellsX(c.Width), remaining)
			remaining -= widths[i]
		}
	}
	for i, c := range n.Children {
		if c.Kind == layout.KindSpacer || (stretch && c.Width > 0) {
			continue
		}
		if stretch {
			flex = append(flex, i)
			continue
		}
		widths[i] = min(e.measure(c), remaining)
		remaining -= widths[i]
	}
	if len(flex) > 0 {
		share, extra := remaining/len(flex), remaining%len(flex)
		for k, i := range flex {
			widths[i] = share
			if k == len(flex)-1 {
				widths[i] += extra
			}
		}
		remaining = 0
	}

	blocks := make([]block, len(n.Children))
	height := 0
	for i, c := range n.Children {
		if c.Kind == layout.KindSpacer {
			continue
		}
		blocks[i] = e.draw(c, widths[i])
		height = max(height, len(blocks[i]))
	}
	if height == 0 {
		return nil
	}

	out := make(block, height)
	for r := 0; r < height; r++ {
		var l line
		for i := range n.Children {
			offset := 0
			if n.CenterContent {
				offset = (height - len(blocks[i])) / 2
			}
			if k := r - offset; k >= 0 && k < len(blocks[i]) {
				l = append(l, blocks[i][k]...)
			} else {
				l = append(l, e.blank(widths[i])...)
			}
		}
		out[r] = append(l, e.blank(remaining)...)
	}
	return out
}

// measure returns the natural width of n in cells.
func (e *engine) measure(n *layout.Node) int {
	pad := cellsX(n.Padding.Left) + cellsX(n.Padding.Right)
	switch {
	case n.Kind == layout.KindSpacer:
		return 0
	case n.Kind == layout.KindText:
		w := 0
		for _, p := range strings.Split(n.Text, "\n") {
			w = max(w, runewidth.StringWidth(p))
		}
		return w + pad
	case n.Kind == layout.KindRow || n.Axis == layout.Horizontal:
		w := 0
		for _, c := range n.Children {
			switch {
			case c.Kind == layout.KindSpacer:
				w += cellsX(c.Length)
			case n.Kind == layout.KindRow && c.Width > 0:
				w += cellsX(c.Width)
			default:
				w += e.measure(c)
			}
		}
		return w + pad
	default:
		w := 0
		for _, c := range n.Children {
			w = max(w, e.measure(c))
		}
		return w + pad
	}
}

// text wraps a text node to w cells.
func (e *engine) text(n *layout.Node, w int) block {
	if w <= 0 {
		return nil
	}
	style := e.textStyle(n.Style)
	var out block
	for _, p := range strings.Split(n.Text, "\n") {
		wrapped := wrap.String(wordwrap.String(p, w), w)
		for _, s := range strings.Split(wrapped, "\n") {
			out = append(out, line{{text: strings.TrimRight(s, " "), style: style}})
		}
	}
	return out
}
