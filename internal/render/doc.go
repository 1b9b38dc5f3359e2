// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render draws a compiled container tree as terminal text.
//
// Sizes in the tree are points. Horizontal points map to cells at five
// points per cell and vertical points to lines at ten points per line.
// Rows split their width between columns (fixed widths first), horizontal
// stacks give flexible spacers whatever their content leaves, and text
// wraps to the width it is given. The widget background is painted per
// line, blending gradient stops from top to bottom.
//
// # Key Types
//
//   - Options: Target size, dark mode, background, border and links
//   - Size: A preview size preset in cells and lines
//
// # Usage
//
//	out := render.Widget(w, render.Options{Size: render.Sizes["medium"]})
//	fmt.Println(out)
package render
