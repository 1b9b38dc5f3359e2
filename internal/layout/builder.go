// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

// Alignment is the horizontal placement applied to content added to the
// current column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignRight:
		return ItemRight
	case AlignCenter:
		return ItemCenter
	default:
		return ItemLeft
	}
}

// ParseAlignment maps an alignment item name to an Alignment.
func ParseAlignment(name string) (Alignment, bool) {
	switch name {
	case ItemLeft:
		return AlignLeft, true
	case ItemRight:
		return AlignRight, true
	case ItemCenter:
		return AlignCenter, true
	}
	return AlignLeft, false
}

// Builder holds the cursor state of one compile pass. It is passed to every
// item handler and is never shared between passes.
type Builder struct {
	root   *Node
	row    *Node
	column *Node

	alignment        Alignment
	defaultAlignment Alignment
}

// NewBuilder returns a builder appending to root.
func NewBuilder(root *Node) *Builder {
	return &Builder{root: root}
}

// Root returns the root container.
func (b *Builder) Root() *Node { return b.root }

// Row returns the current row, or nil before the first row is opened.
func (b *Builder) Row() *Node { return b.row }

// Column returns the current column, or nil when none is open in the
// current row.
func (b *Builder) Column() *Node { return b.column }

// Container returns where content goes: the current column, else the
// current row, else the root.
func (b *Builder) Container() *Node {
	switch {
	case b.column != nil:
		return b.column
	case b.row != nil:
		return b.row
	default:
		return b.root
	}
}

// OpenRow appends a row to the root and makes it current. The current
// column is cleared.
func (b *Builder) OpenRow(height int) *Node {
	row := b.root.add(&Node{Kind: KindRow, Axis: Horizontal})
	if height > 0 {
		row.Height = height
	}
	b.row = row
	b.column = nil
	return row
}

// OpenColumn appends a column to the current row, opening a row first if
// none exists. The alignment resets to the default.
func (b *Builder) OpenColumn(width int) *Node {
	if b.row == nil {
		b.OpenRow(0)
	}
	col := b.row.add(&Node{Kind: KindColumn, Axis: Vertical})
	if width > 0 {
		col.Width = width
	}
	b.column = col
	b.alignment = b.defaultAlignment
	return col
}

// AddItem appends an item container for a content item call.
func (b *Builder) AddItem(name, param string) *Node {
	return b.Container().add(&Node{Kind: KindItem, Axis: Vertical, Name: name, Param: param})
}

// Alignment returns the alignment in effect.
func (b *Builder) Alignment() Alignment { return b.alignment }

// SetAlignment changes the alignment for subsequent content.
func (b *Builder) SetAlignment(a Alignment) { b.alignment = a }

// SetDefaultAlignment changes the alignment every new column starts with.
func (b *Builder) SetDefaultAlignment(a Alignment) {
	b.defaultAlignment = a
	b.alignment = a
}

// Align wraps content in c according to the current alignment. It appends
// a horizontal stack to c with flexible spacers on the appropriate sides
// and returns the inner vertical stack that content should be added to.
func (b *Builder) Align(c *Node) *Node {
	outer := c.AddStack(Horizontal)
	if b.alignment == AlignRight || b.alignment == AlignCenter {
		outer.AddFlexibleSpacer()
	}
	inner := outer.AddStack(Vertical)
	if b.alignment == AlignLeft || b.alignment == AlignCenter {
		outer.AddFlexibleSpacer()
	}
	return inner
}
