// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// background_cmd.go - The background command: write the widget's
// background document.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jeranaias/zonedash/internal/widget"
)

const backgroundUsage = "zonedash background [show|auto|color HEX [DARK]|gradient INITIAL FINAL [INITIAL_DARK FINAL_DARK]|clear]"

// HandleBackground handles "zonedash background".
func HandleBackground(_ context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw)
	name := app.WidgetName()

	var bg *widget.Background
	switch parser.Subcommand() {
	case "", "show":
		return backgroundShow(app)
	case "clear":
		if err := app.Storage.Remove(widget.BackgroundName(name)); err != nil {
			return err
		}
		if !app.Args.Quiet {
			fmt.Fprintf(app.Out, "%s background for %s cleared\n", okMark(), name)
		}
		return nil
	case widget.BackgroundAuto:
		bg = &widget.Background{Type: widget.BackgroundAuto}
	case widget.BackgroundColor:
		colors, err := hexArgs(parser.PositionalFrom(1), 1, 2)
		if err != nil {
			return err
		}
		bg = &widget.Background{Type: widget.BackgroundColor, Color: colors[0]}
		if len(colors) > 1 {
			bg.Dark = colors[1]
		}
	case widget.BackgroundGradient:
		colors, err := hexArgs(parser.PositionalFrom(1), 2, 4)
		if err != nil {
			return err
		}
		if len(colors) == 3 {
			return &ValidationError{
				Field:   "gradient",
				Reason:  "dark colors come in pairs",
				Example: "zonedash background gradient #3A8CC1 #90C0DF #16296B #113245",
			}
		}
		bg = &widget.Background{
			Type:         widget.BackgroundGradient,
			InitialColor: colors[0],
			FinalColor:   colors[1],
		}
		if len(colors) == 4 {
			bg.InitialDark, bg.FinalDark = colors[2], colors[3]
		}
	case widget.BackgroundImage:
		return &ValidationError{
			Field:  "background",
			Value:  widget.BackgroundImage,
			Reason: "image backgrounds cannot be drawn in a terminal",
		}
	default:
		return ErrUnknownSubcommand("background", parser.Subcommand(), backgroundUsage)
	}

	if err := widget.SaveBackground(app.Storage, name, bg); err != nil {
		return err
	}
	if app.Args.JSON {
		return NewJSONResponse("background", bg).Write(app.Out)
	}
	if !app.Args.Quiet {
		fmt.Fprintf(app.Out, "%s %s background saved for %s\n", okMark(), bg.Type, name)
	}
	return nil
}

func backgroundShow(app *App) error {
	bg, err := widget.LoadBackground(app.Storage, app.WidgetName())
	if err != nil {
		return err
	}
	if app.Args.JSON {
		return NewJSONResponse("background show", bg).Write(app.Out)
	}
	if bg == nil {
		fmt.Fprintln(app.Out, DimStyle.Render("no background set"))
		return nil
	}
	fmt.Fprintf(app.Out, "%s%s\n", RenderLabel("Type"), ValueStyle.Render(bg.Type))
	rows := [][2]string{
		{"Color", bg.Color}, {"Dark", bg.Dark},
		{"Initial", bg.InitialColor}, {"Final", bg.FinalColor},
		{"Initial (dark)", bg.InitialDark}, {"Final (dark)", bg.FinalDark},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		swatch := RenderSwatch(row[1])
		fmt.Fprintf(app.Out, "%s%s %s\n", RenderLabel(row[0]), swatch, ValueStyle.Render(row[1]))
	}
	return nil
}

// hexArgs validates between min and max hex colors and normalizes them
// to "#rrggbb".
func hexArgs(args []string, min, max int) ([]string, error) {
	if len(args) < min || len(args) > max {
		return nil, &ValidationError{
			Field:   "colors",
			Value:   strings.Join(args, " "),
			Reason:  fmt.Sprintf("expected %d to %d hex colors", min, max),
			Example: backgroundUsage,
		}
	}
	out := make([]string, len(args))
	for i, arg := range args {
		hex := arg
		if !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, &ValidationError{Field: "color", Value: arg, Reason: "not a hex color", Example: "#3A8CC1"}
		}
		out[i] = c.Hex()
	}
	return out, nil
}
