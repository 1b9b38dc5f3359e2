// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings defines the widget settings schema and resolves a
// persisted document against it.
//
// The schema is an ordered list of categories, each an ordered list of
// typed definitions. A persisted document supplies values for some keys;
// Resolve fills every remaining key from the schema default and drops
// keys the schema does not know. The result can be produced in runtime
// mode (category -> key -> value) or editing mode, where every entry also
// carries a copy of its definition for display.
//
// # Key Types
//
//   - Schema, Category, Definition: The declarative settings schema
//   - Value: Closed set of typed values (text, enum, bool, fonts, multival, multiselect)
//   - Document: Persisted settings as raw JSON per category and key
//   - Resolved: Merged settings tree with typed accessors
//   - Editor: Interactive editing loop driven by an InteractiveUI
//   - Store: Loads and saves the preferences blob of one widget
//
// # Usage
//
//	schema := settings.DefaultSchema()
//	store := settings.NewStore(backend, "zonedash-preferences-"+name)
//	doc, _ := store.Load()
//	resolved := schema.Resolve(doc, false)
//	padding := resolved.Text("widget", "padding")
package settings
