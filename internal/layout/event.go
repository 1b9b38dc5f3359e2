// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"fmt"
	"strings"
)

// EventKind identifies a structural or item event.
type EventKind int

const (
	// EventOpenRow opens a new row under the root.
	EventOpenRow EventKind = iota
	// EventOpenColumn opens a new column in the current row.
	EventOpenColumn
	// EventItemCall dispatches a named item with an optional parameter.
	EventItemCall
)

// Event is one step of a parsed layout. Both source syntaxes lower into
// a sequence of events that the Builder applies in order.
type Event struct {
	Kind EventKind
	// Size is the row height or column width hint. Zero means none.
	Size  int
	Name  string
	Param string
	// Line is the 1-based source line the event came from.
	Line int
}

// OpenRow returns a row-open event.
func OpenRow(height, line int) Event {
	return Event{Kind: EventOpenRow, Size: height, Line: line}
}

// OpenColumn returns a column-open event.
func OpenColumn(width, line int) Event {
	return Event{Kind: EventOpenColumn, Size: width, Line: line}
}

// ItemCall returns an item call event.
func ItemCall(name, param string, line int) Event {
	return Event{Kind: EventItemCall, Name: name, Param: param, Line: line}
}

// String formats the event the way it would appear in keyword syntax.
func (e Event) String() string {
	switch e.Kind {
	case EventOpenRow:
		if e.Size > 0 {
			return fmt.Sprintf("row(%d)", e.Size)
		}
		return "row"
	case EventOpenColumn:
		if e.Size > 0 {
			return fmt.Sprintf("column(%d)", e.Size)
		}
		return "column"
	default:
		if e.Param != "" {
			return e.Name + "(" + e.Param + ")"
		}
		return e.Name
	}
}

// SplitCall splits an item call of the form "name(param)" into its name and
// parameter. One trailing '.' or ',' is ignored. A missing or empty
// parameter yields "".
func SplitCall(text string) (name, param string) {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, ",") {
		text = text[:len(text)-1]
	}
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return strings.TrimSpace(text), ""
	}
	name = strings.TrimSpace(text[:open])
	param = text[open+1:]
	param = strings.TrimSuffix(param, ")")
	return name, param
}
