// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt implements the settings editor's interactive UI on a
// line editor.
//
// Choices are printed as a numbered list and read as a number; text
// fields are read one at a time with the current value prefilled for
// editing. Ctrl+C, Ctrl+D and an empty choice dismiss the prompt.
//
// # Usage
//
//	ui := prompt.New(os.Stdout)
//	defer ui.Close()
//	editor := &settings.Editor{UI: ui, ...}
package prompt
