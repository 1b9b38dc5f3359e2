// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeranaias/zonedash/internal/storage"
)

// PreferencesPrefix prefixes the preferences blob name of every widget.
const PreferencesPrefix = "zonedash-preferences-"

// PreferencesName returns the preferences blob name for a widget.
func PreferencesName(widget string) string {
	return PreferencesPrefix + widget
}

// Store loads and saves one widget's preferences blob.
type Store struct {
	backend storage.Storage
	name    string
}

// NewStore returns a store for the blob called name.
func NewStore(backend storage.Storage, name string) *Store {
	return &Store{backend: backend, name: name}
}

// Name returns the blob name.
func (s *Store) Name() string { return s.name }

// Exists reports whether preferences have been saved.
func (s *Store) Exists() bool { return s.backend.Exists(s.name) }

// Load returns the persisted document, or an empty document when nothing
// has been saved yet.
func (s *Store) Load() (Document, error) {
	text, err := s.backend.ReadText(s.name)
	if errors.Is(err, storage.ErrNotFound) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return ParseDocument([]byte(text))
}

// Save writes a resolved tree as the runtime document, replacing the
// previous blob wholesale.
func (s *Store) Save(r *Resolved) error {
	doc, err := r.Document()
	if err != nil {
		return err
	}
	return s.SaveDocument(doc)
}

// SaveDocument writes doc as the preferences blob.
func (s *Store) SaveDocument(doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.backend.WriteText(s.name, string(data)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Resolve loads the document and resolves it against schema.
func (s *Store) Resolve(schema *Schema, editing bool) (*Resolved, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return schema.Resolve(doc, editing), nil
}

// Reset removes the preferences blob so every key resolves to its default.
func (s *Store) Reset() error {
	return s.backend.Remove(s.name)
}
