// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling used around rendered widgets.

Widget content takes its colors from the settings document; this package
only covers the chrome: the preview header and status bar, diagnostics,
and command output. All colors use Lip Gloss AdaptiveColor for automatic
light/dark terminal detection.

# Color System (colors.go)

  - Sky - Titles, shortcuts, selections
  - Night - Header backgrounds
  - Emerald - Success states
  - Amber - Warnings and layout diagnostics
  - Rose - Errors

Status messages always carry an ASCII indicator ([OK], [X], [!], [i]) so
they stay readable without color.

# Theme (theme.go)

	theme := styles.NewTheme()
	fmt.Println(theme.Shortcut("r", "reload"))
*/
package styles
