// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/zonedash/internal/storage"
)

// LayoutPrefix prefixes the stored layout blob of every widget.
const LayoutPrefix = "zonedash-layout-"

// DefaultLayout is used until a layout has been saved.
const DefaultLayout = `
row
  column
    date
    space
    covid
`

// LayoutName returns the layout blob name for a widget.
func LayoutName(name string) string {
	return LayoutPrefix + name
}

// LoadLayout returns the stored layout for name, or DefaultLayout and
// false when none has been saved.
func LoadLayout(s storage.Storage, name string) (string, bool, error) {
	text, err := s.ReadText(LayoutName(name))
	if errors.Is(err, storage.ErrNotFound) {
		return DefaultLayout, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load layout: %w", err)
	}
	return text, true, nil
}

// SaveLayout stores layout source for name.
func SaveLayout(s storage.Storage, name, src string) error {
	if strings.TrimSpace(src) == "" {
		return errors.New("layout is empty")
	}
	if err := s.WriteText(LayoutName(name), src); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}
