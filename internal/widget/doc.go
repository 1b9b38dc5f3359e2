// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package widget assembles a dashboard from its layout source and stored
// documents.
//
// Create resolves the widget's preferences, derives the shared item
// environment (locale, padding, dark mode), reads the background document
// and compiles the layout. The package also owns the background and
// export bundle documents.
//
// # Key Types
//
//   - Widget: Compiled tree plus resolved settings and background fill
//   - Background: Persisted background document (color, auto, gradient)
//   - Fill: Background resolved to color stops
//   - Bundle: Export format holding layout, preferences and background
//
// # Usage
//
//	w := widget.Create(ctx, source, widget.Options{Name: "main", Storage: store})
//	fmt.Println(render.Widget(w, 40))
package widget
