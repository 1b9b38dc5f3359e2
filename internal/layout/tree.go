// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"strconv"
	"strings"
)

// =============================================================================
// NODE KINDS
// =============================================================================

// Kind identifies what a Node represents.
type Kind int

const (
	// KindWidget is the root container of a tree.
	KindWidget Kind = iota
	// KindRow is a horizontal container holding columns.
	KindRow
	// KindColumn is a vertical container inside a row.
	KindColumn
	// KindItem is the container produced for one content item call.
	KindItem
	// KindStack is a generic stack created by alignment or item handlers.
	KindStack
	// KindText is a leaf holding styled text.
	KindText
	// KindSpacer is a leaf occupying fixed or flexible space.
	KindSpacer
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindWidget:
		return "widget"
	case KindRow:
		return "row"
	case KindColumn:
		return "column"
	case KindItem:
		return "item"
	case KindStack:
		return "stack"
	case KindText:
		return "text"
	case KindSpacer:
		return "spacer"
	default:
		return "unknown"
	}
}

// Axis is the layout direction of a container.
type Axis int

const (
	// Vertical stacks children top to bottom.
	Vertical Axis = iota
	// Horizontal places children left to right.
	Horizontal
)

// String returns the axis name.
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Insets is padding in points on each side of a container.
type Insets struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// TextStyle carries the resolved presentation of a text node.
type TextStyle struct {
	Font string // font name or system weight ("bold", "light", ...)
	Size int    // point size, 0 for renderer default
	// Color is the light-mode color, or the only color when Dynamic is false.
	Color string
	// Dark is the dark-mode color used when Dynamic is true.
	Dark    string
	Dynamic bool
}

// =============================================================================
// NODE
// =============================================================================

// Node is one element of the compiled container tree.
type Node struct {
	Kind Kind
	Axis Axis

	// Name and Param are set on KindItem nodes.
	Name  string
	Param string

	// Width and Height are fixed size hints in points. Zero means flexible.
	Width  int
	Height int

	Padding Insets
	URL     string

	// Text and Style are set on KindText nodes.
	Text  string
	Style TextStyle

	// Length is the fixed length of a spacer. Flexible spacers absorb
	// the remaining space of their parent instead.
	Length   int
	Flexible bool

	// CenterContent asks the renderer to center children on the cross axis.
	CenterContent bool

	Children []*Node
}

func (n *Node) add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// AddStack appends a stack with the given axis.
func (n *Node) AddStack(axis Axis) *Node {
	return n.add(&Node{Kind: KindStack, Axis: axis})
}

// AddText appends a text leaf.
func (n *Node) AddText(text string) *Node {
	return n.add(&Node{Kind: KindText, Text: text})
}

// AddSpacer appends a spacer of fixed length.
func (n *Node) AddSpacer(length int) *Node {
	if length < 0 {
		length = 0
	}
	return n.add(&Node{Kind: KindSpacer, Length: length})
}

// AddFlexibleSpacer appends a spacer that absorbs remaining space.
func (n *Node) AddFlexibleSpacer() *Node {
	return n.add(&Node{Kind: KindSpacer, Flexible: true})
}

// SetPadding sets the container padding.
func (n *Node) SetPadding(top, left, bottom, right int) {
	n.Padding = Insets{Top: top, Left: left, Bottom: bottom, Right: right}
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Find returns all descendants (including n) of the given kind.
func (n *Node) Find(kind Kind) []*Node {
	var out []*Node
	n.Walk(func(node *Node, _ int) bool {
		if node.Kind == kind {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Count returns the number of nodes of the given kind.
func (n *Node) Count(kind Kind) int {
	return len(n.Find(kind))
}

// Texts returns the text of every text leaf in tree order.
func (n *Node) Texts() []string {
	var out []string
	for _, t := range n.Find(KindText) {
		out = append(out, t.Text)
	}
	return out
}

// Dump renders an indented outline of the tree for debugging and the
// "layout" command.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.Walk(func(node *Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(node.describe())
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}

func (n *Node) describe() string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	switch n.Kind {
	case KindItem:
		sb.WriteString(" " + n.Name)
		if n.Param != "" {
			sb.WriteString("(" + n.Param + ")")
		}
	case KindStack:
		sb.WriteString(" " + n.Axis.String())
	case KindText:
		sb.WriteString(" " + strconv.Quote(n.Text))
	case KindSpacer:
		if n.Flexible {
			sb.WriteString(" flexible")
		} else {
			sb.WriteString(" " + strconv.Itoa(n.Length))
		}
	}
	if n.Width > 0 {
		sb.WriteString(" width=" + strconv.Itoa(n.Width))
	}
	if n.Height > 0 {
		sb.WriteString(" height=" + strconv.Itoa(n.Height))
	}
	return sb.String()
}

// =============================================================================
// TREE
// =============================================================================

// Tree is the output of one compile pass.
type Tree struct {
	// ID identifies the compile pass in logs.
	ID          string
	Syntax      Syntax
	Root        *Node
	Diagnostics []Diagnostic
}

// Rows returns the row containers directly under the root.
func (t *Tree) Rows() []*Node {
	var rows []*Node
	for _, c := range t.Root.Children {
		if c.Kind == KindRow {
			rows = append(rows, c)
		}
	}
	return rows
}

// HasDiagnostics reports whether the compile produced any diagnostics.
func (t *Tree) HasDiagnostics() bool {
	return len(t.Diagnostics) > 0
}
