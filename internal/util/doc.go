// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across zonedash.
//
// # Key Functions
//
// Text:
//   - SafeSubstring: Rune-indexed substring with clamped bounds
//   - TruncateWidth, PadWidth, StringWidth: Terminal-cell aware sizing
//   - LeadingInt, LeadingIntOr: Lenient integer parsing of setting text
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	name := util.SafeSubstring(zoneName, 7, 25)
//	padding := util.LeadingIntOr(resolved.Text("widget", "padding"), 5)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
