// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package items

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/jeranaias/zonedash/internal/feeds"
	"github.com/jeranaias/zonedash/internal/layout"
	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/util"
)

// Feeds supplies external data to content items.
type Feeds interface {
	Covid(ctx context.Context, province string) *feeds.Covid
}

// Env is the state shared by every handler during one compile pass.
type Env struct {
	Settings *settings.Resolved
	Now      time.Time
	// Locale is a BCP 47 tag; underscores are accepted ("en_CA").
	Locale string
	// Padding is the item padding in points.
	Padding  int
	DarkMode bool
	// Feeds may be nil, in which case data items render nothing.
	Feeds  Feeds
	Logger *log.Logger
}

func (e *Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// Tag returns the language tag for Locale, defaulting to English.
func (e *Env) Tag() language.Tag {
	locale := strings.ReplaceAll(strings.TrimSpace(e.Locale), "_", "-")
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Format returns the font setting for a text role, or nil when the role
// is not configured.
func (e *Env) Format(role string) *settings.Font {
	if e.Settings == nil {
		return nil
	}
	f, ok := e.Settings.Font("font", role)
	if !ok {
		return nil
	}
	return &f
}

// DefaultText returns the defaultText font setting.
func (e *Env) DefaultText() settings.Font {
	if f := e.Format("defaultText"); f != nil {
		return *f
	}
	return settings.Font{}
}

func (e *Env) text(category, key string) string {
	if e.Settings == nil {
		return ""
	}
	return e.Settings.Text(category, key)
}

func (e *Env) flag(category, key string) bool {
	return e.Settings != nil && e.Settings.Bool(category, key)
}

// =============================================================================
// TEXT PROVISIONING
// =============================================================================

// ProvideText appends s to stack styled by format. With standardize set
// the text is wrapped in an aligned stack padded on every side.
func (e *Env) ProvideText(b *layout.Builder, s string, stack *layout.Node, format *settings.Font, standardize bool) *layout.Node {
	container := stack
	if standardize {
		container = b.Align(stack)
		p := e.Padding
		container.SetPadding(p, p, p, p)
	}

	def := e.DefaultText()
	caps := def.Caps
	if format != nil && format.Caps != "" {
		caps = format.Caps
	}

	node := container.AddText(Capitalize(s, caps, e.Tag()))
	node.Style = e.ProvideColor(format)
	node.Style.Font = ProvideFont(def.Font)
	if format != nil && format.Font != "" {
		node.Style.Font = ProvideFont(format.Font)
	}
	node.Style.Size = util.LeadingIntOr(def.Size, 0)
	if format != nil {
		if n, ok := util.LeadingInt(format.Size); ok && n != 0 {
			node.Style.Size = n
		}
	}
	return node
}

// ProvideColor resolves the light and dark colors of format against
// defaultText. Only the color fields of the returned style are set.
func (e *Env) ProvideColor(format *settings.Font) layout.TextStyle {
	def := e.DefaultText()

	light := def.Color
	if format != nil && format.Color != "" {
		light = format.Color
	}
	defaultDark := def.Dark
	if defaultDark == "" {
		defaultDark = def.Color
	}
	dark := defaultDark
	if format != nil && format.Dark != "" {
		dark = format.Dark
	}

	if e.flag("widget", "instantDark") {
		return layout.TextStyle{Color: light, Dark: dark, Dynamic: true}
	}
	if e.DarkMode && dark != "" {
		return layout.TextStyle{Color: dark}
	}
	return layout.TextStyle{Color: light}
}
