// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// PERSISTED DOCUMENT
// =============================================================================

// Document is a persisted settings document: category -> key -> raw JSON.
// Keys unknown to the schema are kept here but never reach a Resolved tree.
type Document map[string]map[string]json.RawMessage

// ParseDocument decodes a persisted document. Empty input yields an empty
// document. Categories that are not JSON objects are skipped.
func ParseDocument(data []byte) (Document, error) {
	doc := Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	for cat, raw := range top {
		if !isObject(raw) {
			continue
		}
		var items map[string]json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		doc[cat] = items
	}
	return doc, nil
}

// lookup returns the persisted raw value for category/key, or nil when it
// is absent or JSON null.
func (d Document) lookup(category, key string) json.RawMessage {
	items, ok := d[category]
	if !ok {
		return nil
	}
	raw, ok := items[key]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	return raw
}

// =============================================================================
// RESOLVED TREE
// =============================================================================

// Entry is one resolved setting. Definition is a copy of the schema
// definition in editing mode and nil in runtime mode.
type Entry struct {
	Key        string
	Value      Value
	Definition *Definition
}

// ResolvedCategory is one category of a resolved tree.
type ResolvedCategory struct {
	Key     string
	Name    string
	Entries []*Entry
}

// Entry returns the entry with the given key, or nil.
func (c *ResolvedCategory) Entry(key string) *Entry {
	for _, e := range c.Entries {
		if e.Key == key {
			return e
		}
	}
	return nil
}

// Resolved is a schema merged with a persisted document. It contains
// exactly the schema's categories and keys.
type Resolved struct {
	Editing    bool
	Categories []*ResolvedCategory
}

// Resolve merges doc over the schema defaults. A persisted value that is
// absent, null or the wrong shape for its type resolves to the default.
// The schema itself is never modified.
func (s *Schema) Resolve(doc Document, editing bool) *Resolved {
	r := &Resolved{Editing: editing}
	for _, cat := range s.Categories {
		rc := &ResolvedCategory{Key: cat.Key, Name: cat.Name}
		for _, def := range cat.Items {
			value := def.Default
			if raw := doc.lookup(cat.Key, def.Key); raw != nil {
				if v, err := def.Default.decode(raw); err == nil {
					value = v
				}
			}
			entry := &Entry{Key: def.Key, Value: value}
			if editing {
				copied := *def
				copied.Options = append([]string(nil), def.Options...)
				copied.Choices = append([]Option(nil), def.Choices...)
				entry.Definition = &copied
			}
			rc.Entries = append(rc.Entries, entry)
		}
		r.Categories = append(r.Categories, rc)
	}
	return r
}

// Category returns the resolved category with the given key, or nil.
func (r *Resolved) Category(key string) *ResolvedCategory {
	for _, c := range r.Categories {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Entry returns the entry at category/key, or nil.
func (r *Resolved) Entry(category, key string) *Entry {
	if c := r.Category(category); c != nil {
		return c.Entry(key)
	}
	return nil
}

// Value returns the value at category/key, or nil.
func (r *Resolved) Value(category, key string) Value {
	if e := r.Entry(category, key); e != nil {
		return e.Value
	}
	return nil
}

// Set replaces the value at category/key. It reports false when the key
// is not part of the tree or the value has a different type.
func (r *Resolved) Set(category, key string, v Value) bool {
	e := r.Entry(category, key)
	if e == nil || v == nil || e.Value.Type() != v.Type() {
		return false
	}
	e.Value = v
	return true
}

// Text returns a text or enum value as a string. Other types and missing
// keys yield "".
func (r *Resolved) Text(category, key string) string {
	switch v := r.Value(category, key).(type) {
	case Text:
		return string(v)
	case Enum:
		return string(v)
	}
	return ""
}

// Int parses a text value as an integer, returning fallback when it is
// blank or not a number.
func (r *Resolved) Int(category, key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.Text(category, key)))
	if err != nil {
		return fallback
	}
	return n
}

// Bool returns a bool value; other types yield false.
func (r *Resolved) Bool(category, key string) bool {
	v, _ := r.Value(category, key).(Bool)
	return bool(v)
}

// Font returns a font value and whether it exists.
func (r *Resolved) Font(category, key string) (Font, bool) {
	v, ok := r.Value(category, key).(Font)
	return v, ok
}

// Multival returns a multival value.
func (r *Resolved) Multival(category, key string) Multival {
	v, _ := r.Value(category, key).(Multival)
	return v
}

// Selection returns a multiselect value.
func (r *Resolved) Selection(category, key string) Selection {
	v, _ := r.Value(category, key).(Selection)
	return v
}

// Document converts the tree back to a persisted document. Editing-mode
// metadata is stripped; only values are written.
func (r *Resolved) Document() (Document, error) {
	doc := Document{}
	for _, c := range r.Categories {
		items := make(map[string]json.RawMessage, len(c.Entries))
		for _, e := range c.Entries {
			raw, err := json.Marshal(e.Value)
			if err != nil {
				return nil, fmt.Errorf("encode %s.%s: %w", c.Key, e.Key, err)
			}
			items[e.Key] = raw
		}
		doc[c.Key] = items
	}
	return doc, nil
}

// MarshalJSON writes runtime mode as {category: {key: value}} and editing
// mode with each entry expanded to its definition fields plus "val".
func (r *Resolved) MarshalJSON() ([]byte, error) {
	if !r.Editing {
		doc, err := r.Document()
		if err != nil {
			return nil, err
		}
		return json.Marshal(doc)
	}

	type editingEntry struct {
		Val         Value    `json:"val"`
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Type        Type     `json:"type"`
		Options     []string `json:"options,omitempty"`
		Choices     []Option `json:"choices,omitempty"`
	}
	out := make(map[string]map[string]any, len(r.Categories))
	for _, c := range r.Categories {
		items := map[string]any{"name": c.Name}
		for _, e := range c.Entries {
			ee := editingEntry{Val: e.Value}
			if d := e.Definition; d != nil {
				ee.Name, ee.Description, ee.Type = d.Name, d.Description, d.Type
				ee.Options, ee.Choices = d.Options, d.Choices
			}
			items[e.Key] = ee
		}
		out[c.Key] = items
	}
	return json.Marshal(out)
}
