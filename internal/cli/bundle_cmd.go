// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// bundle_cmd.go - The export and import commands.

package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/jeranaias/zonedash/internal/util"
	"github.com/jeranaias/zonedash/internal/widget"
)

// Clipboard access, replaced in tests.
var (
	readClipboard  = clipboard.ReadAll
	writeClipboard = clipboard.WriteAll
)

// HandleExport handles "zonedash export [--clipboard] [--out FILE]".
func HandleExport(_ context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw, "clipboard")

	src, _, err := app.LayoutSource()
	if err != nil {
		return err
	}
	bundle, err := widget.Export(app.Storage, app.schema(), app.WidgetName(), src)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	switch {
	case parser.BoolFlag("clipboard"):
		if err := writeClipboard(string(data)); err != nil {
			return &CommandError{Command: "export", Action: "copy", Reason: "clipboard unavailable", Err: err}
		}
		if !app.Args.Quiet {
			fmt.Fprintf(app.Err, "%s copied %s to the clipboard\n", okMark(), app.WidgetName())
		}
	case parser.Flag("out") != "":
		path := expandHome(parser.Flag("out"))
		if err := util.AtomicWriteFile(path, append(data, '\n'), 0644); err != nil {
			return err
		}
		if !app.Args.Quiet {
			fmt.Fprintf(app.Err, "%s exported %s to %s\n", okMark(), app.WidgetName(), path)
		}
	default:
		fmt.Fprintln(app.Out, string(data))
	}
	return nil
}

// HandleImport handles "zonedash import FILE|- [--clipboard] [--name NAME]".
func HandleImport(_ context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw, "clipboard")

	var text string
	var err error
	switch {
	case parser.BoolFlag("clipboard"):
		text, err = readClipboard()
		if err != nil {
			return &CommandError{Command: "import", Action: "paste", Reason: "clipboard unavailable", Err: err}
		}
	case parser.Subcommand() != "":
		text, err = readInput(app, parser.Subcommand())
		if err != nil {
			return err
		}
	default:
		return ErrMissingArgument("FILE", "zonedash import bundle.json")
	}

	bundle, err := widget.ParseBundle([]byte(text))
	if err != nil {
		return err
	}
	name := parser.Flag("name")
	if name == "" {
		name = app.WidgetName()
	}
	if err := widget.Import(app.Storage, name, bundle); err != nil {
		return err
	}
	if bundle.Layout != "" {
		if err := widget.SaveLayout(app.Storage, name, bundle.Layout); err != nil {
			return err
		}
	}

	if app.Args.JSON {
		return NewJSONResponse("import", map[string]any{
			"widget":     name,
			"from":       bundle.Name,
			"layout":     bundle.Layout != "",
			"background": len(bundle.Background) > 0,
		}).Write(app.Out)
	}
	if !app.Args.Quiet {
		fmt.Fprintf(app.Out, "%s imported %s into %s\n", okMark(), bundle.Name, name)
	}
	return nil
}
