// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package preview provides the live widget preview for the terminal.
//
// The preview is a Bubble Tea program that renders one widget inside a
// scrollable viewport and rebuilds it whenever the layout or preferences
// change on disk.
//
// # Key Types
//
//   - Model: the Bubble Tea model
//   - Watcher: debounced fsnotify watcher for the files the widget reads
//   - KeyMap: keyboard bindings
//
// # Usage
//
//	w, _ := preview.NewWatcher([]string{layoutPath, prefsPath}, 150*time.Millisecond)
//	defer w.Close()
//	m := preview.New(preview.Options{Title: "main", Load: load, Changes: w.Changes()})
//	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
package preview
