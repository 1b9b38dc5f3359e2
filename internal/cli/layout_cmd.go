// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// layout_cmd.go - The layout command: show, check and store layout source.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jeranaias/zonedash/internal/items"
	"github.com/jeranaias/zonedash/internal/layout"
	"github.com/jeranaias/zonedash/internal/ui/highlight"
	"github.com/jeranaias/zonedash/internal/ui/styles"
	"github.com/jeranaias/zonedash/internal/widget"
)

const layoutUsage = "zonedash layout [show|check|save FILE]"

// HandleLayout handles "zonedash layout".
func HandleLayout(ctx context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw, "plain")
	switch parser.Subcommand() {
	case "", "show":
		return layoutShow(app, parser.BoolFlag("plain"))
	case "check":
		return layoutCheck(ctx, app)
	case "save":
		return layoutSave(app, parser.Positional(1))
	default:
		return ErrUnknownSubcommand("layout", parser.Subcommand(), layoutUsage)
	}
}

func layoutShow(app *App, plain bool) error {
	src, origin, err := app.LayoutSource()
	if err != nil {
		return err
	}
	if app.Args.JSON {
		return NewJSONResponse("layout show", map[string]string{
			"source": origin,
			"syntax": layout.DetectSyntax(src).String(),
			"layout": src,
		}).Write(app.Out)
	}

	out := src
	if !plain && ColorsEnabled() {
		formatter := "terminal256"
		if GetColorProfile() == termenv.TrueColor {
			formatter = "terminal16m"
		}
		highlighted, err := highlight.Source(src, items.NewRegistry(nil).Names(), highlight.Options{Formatter: formatter})
		if err != nil {
			app.logger().Printf("highlight: %v", err)
		} else {
			out = highlighted
		}
	}
	if !app.Args.Quiet {
		fmt.Fprintln(app.Err, DimStyle.Render("# "+origin+" ("+layout.DetectSyntax(src).String()+")"))
	}
	fmt.Fprint(app.Out, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(app.Out)
	}
	return nil
}

// layoutCheck compiles without fetching feed data and reports problems.
func layoutCheck(ctx context.Context, app *App) error {
	src, origin, err := app.LayoutSource()
	if err != nil {
		return err
	}
	w := widget.Create(ctx, src, widget.Options{
		Name:    app.WidgetName(),
		Storage: app.Storage,
		Schema:  app.schema(),
		Now:     app.now(),
		Logger:  app.logger(),
	})
	diags := w.Tree.Diagnostics
	data := LayoutCheckData{
		Source:      origin,
		Nodes:       w.Tree.Root.Count(layout.KindItem),
		Valid:       len(diags) == 0,
		Diagnostics: diagnosticData(diags),
	}
	if app.Args.JSON {
		return NewJSONResponse("layout check", data).Write(app.Out)
	}

	fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Layout"), ValueStyle.Render(origin))
	fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Syntax"), ValueStyle.Render(w.Tree.Syntax.String()))
	fmt.Fprintf(app.Out, "%s%d\n", RenderLabel("Items"), data.Nodes)
	if data.Valid {
		fmt.Fprintln(app.Out, styles.RenderSuccess("layout compiles cleanly"))
		return nil
	}
	printDiagnostics(app, diags)
	return &CommandError{
		Command: "layout",
		Action:  "check",
		Reason:  fmt.Sprintf("%d diagnostics", len(diags)),
	}
}

func layoutSave(app *App, path string) error {
	if path == "" {
		return ErrMissingArgument("FILE", "zonedash layout save dashboard.ldl")
	}
	src, err := readInput(app, path)
	if err != nil {
		return err
	}
	if err := widget.SaveLayout(app.Storage, app.WidgetName(), src); err != nil {
		return err
	}
	if !app.Args.Quiet {
		fmt.Fprintf(app.Out, "%s saved layout for %s\n", okMark(), app.WidgetName())
	}
	return nil
}

// readInput reads path, or app.In when path is "-".
func readInput(app *App, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(app.In)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
