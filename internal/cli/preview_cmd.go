// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// preview_cmd.go - The preview command: a live, re-rendering view of the
// widget.

package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/storage"
	"github.com/jeranaias/zonedash/internal/ui/preview"
	"github.com/jeranaias/zonedash/internal/widget"
)

// runProgram is replaced in tests.
var runProgram = func(m tea.Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// HandlePreview handles "zonedash preview".
func HandlePreview(ctx context.Context, app *App) error {
	if err := RequiresTTY("preview"); err != nil {
		return err
	}

	var changes <-chan string
	if files := watchedFiles(app); len(files) > 0 {
		w, err := preview.NewWatcher(files, preview.DefaultDebounce)
		if err != nil {
			app.logger().Printf("watch: %v; live reload disabled", err)
		} else {
			defer w.Close()
			changes = w.Changes()
		}
	}

	opts, size := app.RenderOptions()
	model := preview.New(preview.Options{
		Title: "zonedash · " + app.WidgetName(),
		Load: func(ctx context.Context, dark bool) *widget.Widget {
			src, origin, err := app.LayoutSource()
			if err != nil {
				app.logger().Printf("layout %s: %v", origin, err)
			}
			return app.Create(ctx, src, dark)
		},
		Size:       size,
		DarkMode:   app.DarkMode(),
		Changes:    changes,
		Renderer:   opts.Renderer,
		Hyperlinks: opts.Hyperlinks,
		Now:        app.now,
	})

	if err := runProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// watchedFiles lists the files whose changes should re-render the
// preview: the layout file and, for the files backend, the widget's
// documents.
func watchedFiles(app *App) []string {
	var files []string
	if path := app.LayoutPath(); path != "" {
		files = append(files, path)
	}
	if fs, ok := app.Storage.(*storage.Files); ok {
		name := app.WidgetName()
		for _, blob := range []string{
			settings.PreferencesName(name),
			widget.BackgroundName(name),
			widget.LayoutName(name),
		} {
			files = append(files, filepath.Join(fs.BaseDir, blob))
		}
	}
	return files
}
