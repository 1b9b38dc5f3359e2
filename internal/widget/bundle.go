// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/storage"
)

// ErrInvalidBundle is returned for export bundles that cannot be imported.
var ErrInvalidBundle = errors.New("invalid export bundle")

// BundleVersion is written to every export.
const BundleVersion = 1

// Bundle is a widget export: its layout source, the resolved preferences
// and the raw background document.
type Bundle struct {
	Version     int               `json:"version"`
	Name        string            `json:"name"`
	Layout      string            `json:"layout"`
	Preferences settings.Document `json:"preferences"`
	Background  json.RawMessage   `json:"background,omitempty"`
}

// Export builds a bundle for the named widget. Preferences are resolved
// against schema so the bundle carries every current key.
func Export(s storage.Storage, schema *settings.Schema, name, layoutSrc string) (*Bundle, error) {
	if schema == nil {
		schema = settings.DefaultSchema()
	}
	resolved, err := settings.NewStore(s, settings.PreferencesName(name)).Resolve(schema, false)
	if err != nil {
		return nil, err
	}
	prefs, err := resolved.Document()
	if err != nil {
		return nil, err
	}

	b := &Bundle{Version: BundleVersion, Name: name, Layout: layoutSrc, Preferences: prefs}
	text, err := s.ReadText(BackgroundName(name))
	switch {
	case err == nil:
		if !json.Valid([]byte(text)) {
			return nil, fmt.Errorf("background for %s is not valid JSON", name)
		}
		b.Background = json.RawMessage(text)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("read background: %w", err)
	}
	return b, nil
}

// ParseBundle decodes an exported bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if b.Version > BundleVersion {
		return nil, fmt.Errorf("%w: version %d is newer than %d", ErrInvalidBundle, b.Version, BundleVersion)
	}
	if b.Preferences == nil {
		return nil, fmt.Errorf("%w: no preferences", ErrInvalidBundle)
	}
	return &b, nil
}

// Import writes the bundle's preferences and background under name. The
// layout source is left to the caller.
func Import(s storage.Storage, name string, b *Bundle) error {
	if err := settings.NewStore(s, settings.PreferencesName(name)).SaveDocument(b.Preferences); err != nil {
		return err
	}
	if len(b.Background) == 0 {
		return nil
	}
	var bg Background
	if err := json.Unmarshal(b.Background, &bg); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalidBundle, err)
	}
	if err := s.WriteText(BackgroundName(name), string(b.Background)); err != nil {
		return fmt.Errorf("save background: %w", err)
	}
	return nil
}
