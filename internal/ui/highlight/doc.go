// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package highlight colors layout source for the terminal.
//
// The lexer is built per call from the names the dispatcher knows, so
// misspelled or removed items stand out as errors in both syntaxes.
//
// # Usage
//
//	out, err := highlight.Source(src, items.NewRegistry(nil).Names(), highlight.Options{})
package highlight
