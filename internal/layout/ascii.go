// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Item names emitted by the ASCII parser for alignment and spacing.
const (
	ItemLeft   = "left"
	ItemRight  = "right"
	ItemCenter = "center"
	ItemSpace  = "space"
)

// Catalog reports whether an item name is known to the dispatcher.
type Catalog interface {
	Known(name string) bool
}

// widthCell matches a purely numeric cell with whitespace on both sides.
var widthCell = regexp.MustCompile(`^\s+\d+\s+$`)

// pendingColumn is a column collected across the content lines of one row.
type pendingColumn struct {
	width int
	calls []Event
}

// asciiParser buffers columns between separator lines. A row is only
// emitted when a separator (or end of input) closes it, so at most one
// row is pending at any time.
type asciiParser struct {
	known   Catalog
	pending map[int]*pendingColumn
	events  []Event
}

// ParseASCII lowers ASCII-table source into events. Cell tokens are only
// treated as items when known reports them; anything else is a width,
// a blank spacer, or ignored.
func ParseASCII(src string, known Catalog) []Event {
	p := &asciiParser{
		known:   known,
		pending: make(map[int]*pendingColumn),
	}
	lines := splitLines(src)
	for i, line := range lines {
		p.line(line, i+1)
	}
	p.flush(len(lines))
	return p.events
}

func (p *asciiParser) line(line string, n int) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if isSeparator(trimmed) {
		p.flush(n)
		return
	}
	if !strings.Contains(line, "|") {
		return
	}

	segments := strings.Split(line, "|")
	// Only interior segments are cells; the first and last lie outside the
	// outermost pipes.
	for idx := 1; idx < len(segments)-1; idx++ {
		p.cell(idx, segments[idx], n)
	}
}

func (p *asciiParser) column(idx int) *pendingColumn {
	col, ok := p.pending[idx]
	if !ok {
		col = &pendingColumn{}
		p.pending[idx] = col
	}
	return col
}

func (p *asciiParser) cell(idx int, raw string, n int) {
	col := p.column(idx)
	token := strings.TrimSpace(raw)

	if token != "" {
		if name, param := SplitCall(token); name != "" && p.known != nil && p.known.Known(name) {
			col.calls = append(col.calls,
				ItemCall(ClassifyAlignment(raw), "", n),
				ItemCall(name, param, n),
			)
			return
		}
	}

	if widthCell.MatchString(raw) {
		if w, err := strconv.Atoi(token); err == nil && w > 0 {
			col.width = w
		}
		return
	}

	if token == "" {
		if last := len(col.calls) - 1; last >= 0 && col.calls[last].Name == ItemSpace {
			return
		}
		col.calls = append(col.calls, ItemCall(ItemSpace, "", n))
	}
}

// flush emits the pending row, if any, and clears the buffer.
func (p *asciiParser) flush(n int) {
	if len(p.pending) == 0 {
		return
	}

	indices := make([]int, 0, len(p.pending))
	for idx := range p.pending {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	p.events = append(p.events, OpenRow(0, n))
	for _, idx := range indices {
		col := p.pending[idx]
		p.events = append(p.events, OpenColumn(col.width, n))
		p.events = append(p.events, col.calls...)
	}
	p.pending = make(map[int]*pendingColumn)
}

// ClassifyAlignment derives an alignment item name from the whitespace
// around a raw cell: space on both sides centers, trailing space only
// left-aligns, anything else right-aligns.
func ClassifyAlignment(raw string) string {
	leading := strings.HasPrefix(raw, " ")
	trailing := strings.HasSuffix(raw, " ")
	switch {
	case leading && trailing:
		return ItemCenter
	case trailing:
		return ItemLeft
	default:
		return ItemRight
	}
}
