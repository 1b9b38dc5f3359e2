// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package layout compiles layout-description text into a container tree.
//
// Two source syntaxes are accepted and detected automatically: an ASCII
// table, where dashed separator lines delimit rows and pipe-delimited cells
// form columns, and a keyword syntax with one item call per line. Both
// parsers lower their input into the same Event stream, which a Builder
// applies to a Tree through a Dispatcher.
//
// # Key Types
//
//   - Node: One container, item, text or spacer in the compiled tree
//   - Tree: Compiled output with its syntax, ID and diagnostics
//   - Event: Row open, column open or item call produced by a parser
//   - Builder: Cursor state (current row, column, alignment) over a tree
//   - Dispatcher: Resolves item names to handlers (see package items)
//
// # Usage
//
//	tree := layout.Compile(ctx, source, registry, layout.Options{})
//	for _, d := range tree.Diagnostics {
//	    fmt.Println(d)
//	}
package layout
