// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render_cmd.go - The render command: compile the layout and print it once.

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/zonedash/internal/layout"
	"github.com/jeranaias/zonedash/internal/render"
	"github.com/jeranaias/zonedash/internal/ui/styles"
)

// HandleRender handles "zonedash render [--border]".
func HandleRender(ctx context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw, "border")

	src, origin, err := app.LayoutSource()
	if err != nil {
		return err
	}
	app.logger().Printf("rendering %s from %s", app.WidgetName(), origin)

	dark := app.DarkMode()
	w := app.Create(ctx, src, dark)
	opts, size := app.RenderOptions()
	opts.Border = parser.BoolFlag("border")
	out := render.Widget(w, opts)

	if app.Args.JSON {
		return NewJSONResponse("render", RenderData{
			Widget:      app.WidgetName(),
			Size:        size,
			Dark:        dark,
			Output:      out,
			Diagnostics: diagnosticData(w.Tree.Diagnostics),
		}).Write(app.Out)
	}

	fmt.Fprintln(app.Out, out)
	if !app.Args.Quiet {
		printDiagnostics(app, w.Tree.Diagnostics)
	}
	return nil
}

func diagnosticData(diags []layout.Diagnostic) []DiagnosticData {
	data := make([]DiagnosticData, 0, len(diags))
	for _, d := range diags {
		data = append(data, DiagnosticData{Line: d.Line, Message: d.Error()})
	}
	return data
}

// printDiagnostics writes a summary of compile problems to app.Err.
func printDiagnostics(app *App, diags []layout.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	noun := "problems"
	if len(diags) == 1 {
		noun = "problem"
	}
	fmt.Fprintln(app.Err, styles.RenderWarning(fmt.Sprintf("%d layout %s", len(diags), noun)))
	for _, d := range diags {
		fmt.Fprintf(app.Err, "  %s\n", d.Error())
	}
}
