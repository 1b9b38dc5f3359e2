// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/zonedash/internal/items"
	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/storage"
)

// BackgroundPrefix prefixes the background blob name of every widget.
const BackgroundPrefix = "zonedash-"

// BackgroundName returns the background blob name for a widget.
func BackgroundName(name string) string {
	return BackgroundPrefix + name
}

// Background types.
const (
	BackgroundColor    = "color"
	BackgroundAuto     = "auto"
	BackgroundGradient = "gradient"
	BackgroundImage    = "image"
)

// ErrBackgroundType is returned for unsupported background types.
var ErrBackgroundType = errors.New("unsupported background type")

// Background is the persisted background document.
type Background struct {
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
	Dark  string `json:"dark,omitempty"`

	InitialColor string `json:"initialColor,omitempty"`
	FinalColor   string `json:"finalColor,omitempty"`
	InitialDark  string `json:"initialDark,omitempty"`
	FinalDark    string `json:"finalDark,omitempty"`
}

// Validate checks the type and that the required colors are present.
func (b *Background) Validate() error {
	switch b.Type {
	case BackgroundAuto:
		return nil
	case BackgroundColor:
		if strings.TrimSpace(b.Color) == "" {
			return fmt.Errorf("color background needs a color")
		}
		return nil
	case BackgroundGradient:
		if strings.TrimSpace(b.InitialColor) == "" || strings.TrimSpace(b.FinalColor) == "" {
			return fmt.Errorf("gradient background needs initial and final colors")
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrBackgroundType, b.Type)
	}
}

// LoadBackground reads a widget's background document. A missing blob
// yields nil and no error.
func LoadBackground(s storage.Storage, name string) (*Background, error) {
	text, err := s.ReadText(BackgroundName(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load background: %w", err)
	}
	var bg Background
	if err := json.Unmarshal([]byte(text), &bg); err != nil {
		return nil, fmt.Errorf("parse background: %w", err)
	}
	return &bg, nil
}

// SaveBackground validates and writes a widget's background document.
func SaveBackground(s storage.Storage, name string, bg *Background) error {
	if err := bg.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(bg)
	if err != nil {
		return fmt.Errorf("encode background: %w", err)
	}
	if err := s.WriteText(BackgroundName(name), string(data)); err != nil {
		return fmt.Errorf("save background: %w", err)
	}
	return nil
}

// =============================================================================
// FILL
// =============================================================================

// Stop is one color of a background fill.
type Stop struct {
	Color string
	// Dark is used instead of Color on dark terminals when Dynamic is set.
	Dark     string
	Dynamic  bool
	Position float64
}

// Fill is a background resolved to color stops. An empty fill means the
// terminal's own background.
type Fill struct {
	Type  string
	Stops []Stop
}

// Empty reports whether the fill has no colors.
func (f Fill) Empty() bool { return len(f.Stops) == 0 }

// Gradient colors of the automatic background.
var (
	nightStops = []Stop{
		{Color: "16296b", Position: -0.5},
		{Color: "021033", Position: 0.2},
		{Color: "021033", Position: 0.5},
		{Color: "113245", Position: 1},
	}
	dayStops = []Stop{
		{Color: "3a8cc1", Position: 0},
		{Color: "90c0df", Position: 1},
	}
)

// AutoFill returns the automatic day or night gradient.
func AutoFill(night bool) Fill {
	stops := dayStops
	if night {
		stops = nightStops
	}
	return Fill{Type: BackgroundAuto, Stops: append([]Stop(nil), stops...)}
}

func colorStop(env *items.Env, light, dark string, pos float64) Stop {
	style := env.ProvideColor(&settings.Font{Color: light, Dark: dark})
	return Stop{Color: style.Color, Dark: style.Dark, Dynamic: style.Dynamic, Position: pos}
}

// ColorFill resolves a color or gradient background. Auto and unknown
// types yield an empty fill.
func ColorFill(env *items.Env, bg *Background) Fill {
	if bg == nil {
		return Fill{}
	}
	switch bg.Type {
	case BackgroundColor:
		return Fill{Type: bg.Type, Stops: []Stop{colorStop(env, bg.Color, bg.Dark, 0)}}
	case BackgroundGradient:
		return Fill{Type: bg.Type, Stops: []Stop{
			colorStop(env, bg.InitialColor, bg.InitialDark, 0),
			colorStop(env, bg.FinalColor, bg.FinalDark, 1),
		}}
	}
	return Fill{}
}
