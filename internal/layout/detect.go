// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import "strings"

// Syntax is the detected source syntax of a layout.
type Syntax int

const (
	// SyntaxKeyword is one item call per line.
	SyntaxKeyword Syntax = iota
	// SyntaxASCII is a dashed/pipe-delimited table.
	SyntaxASCII
)

// String returns the syntax name.
func (s Syntax) String() string {
	if s == SyntaxASCII {
		return "ascii"
	}
	return "keyword"
}

// RowKeyword is the item name that opens a row in keyword syntax.
const RowKeyword = "row"

// DetectSyntax decides which parser handles src. The first line that is
// either a separator line or a row call decides; with neither present the
// keyword syntax is used.
func DetectSyntax(src string) Syntax {
	for _, line := range splitLines(src) {
		trimmed := strings.TrimSpace(line)
		if isSeparator(trimmed) {
			return SyntaxASCII
		}
		if name, _ := SplitCall(trimmed); name == RowKeyword {
			return SyntaxKeyword
		}
	}
	return SyntaxKeyword
}

// isSeparator reports whether a trimmed line starts and ends with '-'.
// Such a line has at least two characters.
func isSeparator(trimmed string) bool {
	return len(trimmed) >= 2 && trimmed[0] == '-' && trimmed[len(trimmed)-1] == '-'
}

func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
