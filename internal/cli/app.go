// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Collaborators shared by every command.

package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/zonedash/internal/cache"
	"github.com/jeranaias/zonedash/internal/config"
	"github.com/jeranaias/zonedash/internal/datasource"
	"github.com/jeranaias/zonedash/internal/feeds"
	"github.com/jeranaias/zonedash/internal/render"
	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/storage"
	"github.com/jeranaias/zonedash/internal/widget"
)

// App carries the configuration and collaborators for one invocation.
// Nil Now, Schema and Logger fall back to time.Now, the default schema and
// a discarding logger.
type App struct {
	Config  *config.Config
	Args    Args
	Storage storage.Storage
	Cache   *cache.Bounded
	Source  datasource.DataSource
	Schema  *settings.Schema
	Logger  *log.Logger

	Out io.Writer
	Err io.Writer
	In  io.Reader

	Now func() time.Time
	// Renderer controls the color profile of widget output.
	Renderer *lipgloss.Renderer
}

// NewApp opens storage and builds the data source described by cfg, with
// command-line overrides from args applied on top.
func NewApp(cfg *config.Config, args Args) (*App, error) {
	if args.Offline {
		cfg.Network.Offline = true
	}
	if args.Widget != "" {
		cfg.Widget.Name = args.Widget
	}
	if args.Dark != "" {
		cfg.Render.Dark = args.Dark
	}
	if args.Width > 0 {
		cfg.Render.Width = args.Width
	}
	datasource.SetOfflineMode(cfg.Network.Offline)

	logger := log.New(io.Discard, "", 0)
	if args.Verbose {
		logger = log.New(os.Stderr, "zonedash: ", log.LstdFlags|log.Lmsgprefix)
	}

	store, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	srcOpts := cfg.DataSourceOptions()
	srcOpts.UserAgent = "zonedash/" + Version
	srcOpts.Logger = logger

	return &App{
		Config:   cfg,
		Args:     args,
		Storage:  store,
		Cache:    cache.New(store),
		Source:   datasource.NewHTTP(srcOpts),
		Schema:   settings.DefaultSchema(),
		Logger:   logger,
		Out:      os.Stdout,
		Err:      os.Stderr,
		In:       os.Stdin,
		Now:      time.Now,
		Renderer: NewRenderer(os.Stdout),
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	return a.Storage.Close()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) schema() *settings.Schema {
	if a.Schema != nil {
		return a.Schema
	}
	return settings.DefaultSchema()
}

func (a *App) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.New(io.Discard, "", 0)
}

// WidgetName returns the selected widget.
func (a *App) WidgetName() string {
	if a.Args.Widget != "" {
		return a.Args.Widget
	}
	if a.Config != nil && a.Config.Widget.Name != "" {
		return a.Config.Widget.Name
	}
	return "main"
}

// LayoutPath returns the layout file in use, or "" when the layout comes
// from storage.
func (a *App) LayoutPath() string {
	path := a.Args.Layout
	if path == "" && a.Config != nil {
		path = a.Config.Widget.LayoutFile
	}
	return expandHome(path)
}

// LayoutSource returns the layout source and where it came from.
func (a *App) LayoutSource() (src, origin string, err error) {
	if path := a.LayoutPath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", path, fmt.Errorf("read layout: %w", err)
		}
		return string(data), path, nil
	}
	name := a.WidgetName()
	src, stored, err := widget.LoadLayout(a.Storage, name)
	if err != nil {
		return "", "", err
	}
	if !stored {
		return src, "default layout", nil
	}
	return src, widget.LayoutName(name), nil
}

// DarkMode resolves the configured dark mode.
func (a *App) DarkMode() bool {
	mode := a.Args.Dark
	if mode == "" && a.Config != nil {
		mode = a.Config.Render.Dark
	}
	return ResolveDark(mode)
}

// Feeds returns a fresh feed set for a render at now.
func (a *App) Feeds(now time.Time) *feeds.Set {
	var cfg feeds.Config
	if a.Config != nil {
		cfg = a.Config.FeedConfig()
	}
	c := a.Cache
	if c == nil {
		c = cache.New(a.Storage, cache.WithClock(a.now))
	}
	return feeds.New(c, a.Source, cfg, now, a.logger())
}

// Create compiles the widget from src.
func (a *App) Create(ctx context.Context, src string, dark bool) *widget.Widget {
	now := a.now()
	opts := widget.Options{
		Name:     a.WidgetName(),
		Storage:  a.Storage,
		Schema:   a.schema(),
		Locale:   os.Getenv("ZONEDASH_LOCALE"),
		DarkMode: dark,
		Now:      now,
		Logger:   a.logger(),
	}
	if a.Source != nil {
		opts.Feeds = a.Feeds(now)
	}
	return widget.Create(ctx, src, opts)
}

// RenderOptions returns the render options for the saved preview size and
// the configured width.
func (a *App) RenderOptions() (render.Options, string) {
	size := widget.PreviewSize(a.Storage, a.WidgetName())
	target, ok := render.Sizes[size]
	if !ok {
		size = widget.DefaultPreview
		target = render.DefaultSize
	}
	width := a.Args.Width
	if width == 0 && a.Config != nil {
		width = a.Config.Render.Width
	}
	if width > 0 {
		target.Width = width
	}
	opts := render.Options{
		Size:     target,
		Renderer: a.Renderer,
	}
	if a.Config != nil {
		opts.Hyperlinks = a.Config.Render.Hyperlinks
	}
	return opts, size
}

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
