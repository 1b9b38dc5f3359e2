// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package items resolves layout item names to handlers.
//
// A Registry holds two tables: custom handlers supplied by the caller and
// the built-in items. Custom handlers win on a name collision. Structural
// built-ins (row, column, space, left, right, center) move the builder's
// cursor; content built-ins (date, covid, text, symbol) append text and
// stacks to an item container.
//
// # Key Types
//
//   - Env: Shared render state (settings, clock, locale, padding, feeds)
//   - Item: A named handler with its kind and help text
//   - Registry: Implements layout.Dispatcher over custom and built-in items
//   - Call: Arguments passed to a handler
//
// # Usage
//
//	env := &items.Env{Settings: resolved, Now: time.Now(), Padding: 5}
//	tree := items.CompileLayout(ctx, source, env, nil)
package items
