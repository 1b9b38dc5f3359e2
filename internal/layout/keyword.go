// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import "strings"

// ParseKeyword lowers keyword-syntax source into events. Each non-blank
// line is one item call. Structural keywords such as row and column stay
// item calls here; their handlers drive the builder.
func ParseKeyword(src string) []Event {
	var events []Event
	for i, line := range splitLines(src) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		name, param := SplitCall(trimmed)
		if name == "" {
			continue
		}
		events = append(events, ItemCall(name, param, i+1))
	}
	return events
}
