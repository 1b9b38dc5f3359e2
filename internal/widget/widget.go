// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/zonedash/internal/feeds"
	"github.com/jeranaias/zonedash/internal/items"
	"github.com/jeranaias/zonedash/internal/layout"
	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/storage"
	"github.com/jeranaias/zonedash/internal/util"
)

// DefaultPreview is the preview size used when none is saved.
const DefaultPreview = "large"

// Feeds supplies external data to the widget and its items.
type Feeds interface {
	items.Feeds
	Sun(ctx context.Context, updateLocationMinutes int) *feeds.Sun
}

// Options configures Create.
type Options struct {
	// Name selects the preferences and background blobs.
	Name    string
	Storage storage.Storage
	// Schema defaults to settings.DefaultSchema().
	Schema *settings.Schema
	// Feeds may be nil; data items and the automatic background then
	// fall back to empty data and the day gradient.
	Feeds Feeds
	// Locale is used when the widget.locale setting is blank. Empty
	// means the system locale.
	Locale   string
	DarkMode bool
	// Now defaults to time.Now().
	Now    time.Time
	Custom map[string]items.Handler
	Logger *log.Logger
}

// Widget is a compiled dashboard.
type Widget struct {
	Name       string
	Tree       *layout.Tree
	Settings   *settings.Resolved
	Env        *items.Env
	Background Fill
}

// Create builds a widget from layout source. Storage and feed failures
// are logged and replaced by defaults; Create never fails.
func Create(ctx context.Context, src string, opts Options) *Widget {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	schema := opts.Schema
	if schema == nil {
		schema = settings.DefaultSchema()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	doc := settings.Document{}
	if opts.Storage != nil {
		loaded, err := settings.NewStore(opts.Storage, settings.PreferencesName(opts.Name)).Load()
		if err != nil {
			logger.Printf("widget %s: %v; using default settings", opts.Name, err)
		} else {
			doc = loaded
		}
	}
	resolved := schema.Resolve(doc, false)

	locale := strings.TrimSpace(resolved.Text("widget", "locale"))
	if locale == "" {
		locale = opts.Locale
	}
	if locale == "" {
		locale = SystemLocale()
	}

	env := &items.Env{
		Settings: resolved,
		Now:      now,
		Locale:   locale,
		Padding:  util.LeadingIntOr(resolved.Text("widget", "padding"), 0),
		DarkMode: opts.DarkMode,
		Logger:   logger,
	}
	if opts.Feeds != nil {
		env.Feeds = opts.Feeds
	}

	w := &Widget{Name: opts.Name, Settings: resolved, Env: env}
	w.Background = background(ctx, env, opts, logger)

	root := &layout.Node{Kind: layout.KindWidget, Axis: layout.Vertical}
	root.Padding = Padding(env.Padding, resolved.Multival("widget", "widgetPadding"))
	w.Tree = items.CompileInto(ctx, src, env, opts.Custom, root)
	return w
}

func background(ctx context.Context, env *items.Env, opts Options, logger *log.Logger) Fill {
	if opts.Storage == nil {
		return Fill{}
	}
	bg, err := LoadBackground(opts.Storage, opts.Name)
	if err != nil {
		logger.Printf("widget %s: %v", opts.Name, err)
		return Fill{}
	}
	if bg == nil {
		return Fill{}
	}
	switch bg.Type {
	case BackgroundAuto:
		night := false
		if opts.Feeds != nil {
			update := env.Settings.Int("widget", "updateLocation", 60)
			night = opts.Feeds.Sun(ctx, update).IsNight(env.Now)
		}
		return AutoFill(night)
	case BackgroundColor, BackgroundGradient:
		return ColorFill(env, bg)
	default:
		logger.Printf("widget %s: %v: %q", opts.Name, ErrBackgroundType, bg.Type)
		return Fill{}
	}
}

// Padding derives the widget padding from the item padding p. Each
// non-blank side of custom replaces the derived value.
func Padding(p int, custom settings.Multival) layout.Insets {
	vertical := 10
	if p < 10 {
		vertical = 10 - p
	}
	horizontal := 15
	if p < 15 {
		horizontal = 15 - p
	}
	side := func(key string, def int) int {
		v := custom.Get(key)
		if v == "" {
			return def
		}
		return util.LeadingIntOr(v, def)
	}
	return layout.Insets{
		Top:    side("top", vertical),
		Left:   side("left", horizontal),
		Bottom: side("bottom", vertical),
		Right:  side("right", horizontal),
	}
}

// PreviewSize returns the saved widget.preview value, or DefaultPreview.
// The raw document is read so an unsaved widget reports the default.
func PreviewSize(s storage.Storage, name string) string {
	doc, err := settings.NewStore(s, settings.PreferencesName(name)).Load()
	if err != nil {
		return DefaultPreview
	}
	raw, ok := doc["widget"]["preview"]
	if !ok {
		return DefaultPreview
	}
	var size string
	if err := json.Unmarshal(raw, &size); err != nil || size == "" {
		return DefaultPreview
	}
	return size
}

// SystemLocale derives a locale from the POSIX locale variables, such as
// "en_CA" from LANG=en_CA.UTF-8. It falls back to "en_US".
func SystemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return "en_US"
}
