// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// settings_cmd.go - The settings and schema commands.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/ui/prompt"
)

const settingsUsage = "zonedash settings [show|edit|set CATEGORY.KEY VALUE|reset]"

// HandleSettings handles "zonedash settings".
func HandleSettings(ctx context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw)
	switch parser.Subcommand() {
	case "", "show":
		return settingsShow(app)
	case "edit":
		return settingsEdit(ctx, app)
	case "set":
		return settingsSet(app, parser.Positional(1), strings.Join(parser.PositionalFrom(2), " "))
	case "reset":
		return settingsReset(app)
	default:
		return ErrUnknownSubcommand("settings", parser.Subcommand(), settingsUsage)
	}
}

func (a *App) settingsStore() *settings.Store {
	return settings.NewStore(a.Storage, settings.PreferencesName(a.WidgetName()))
}

func settingsShow(app *App) error {
	resolved, err := app.settingsStore().Resolve(app.schema(), true)
	if err != nil {
		return err
	}

	if app.Args.JSON {
		var data []SettingData
		for _, c := range resolved.Categories {
			for _, e := range c.Entries {
				data = append(data, SettingData{
					Category: c.Key,
					Key:      e.Key,
					Name:     entryName(e),
					Type:     e.Value.Type().String(),
					Value:    e.Value.Display(),
				})
			}
		}
		return NewJSONResponse("settings show", data).Write(app.Out)
	}

	fmt.Fprintln(app.Out, TitleStyle.Render("Settings for "+app.WidgetName()))
	for i, c := range resolved.Categories {
		if i > 0 {
			fmt.Fprintln(app.Out)
		}
		fmt.Fprintln(app.Out, SectionStyle.Render(c.Name+" ("+c.Key+")"))
		for _, e := range c.Entries {
			value := e.Value.Display()
			if value == "" {
				value = DimStyle.Render("(blank)")
			} else {
				value = ValueStyle.Render(value)
			}
			fmt.Fprintf(app.Out, "  %s%s\n", RenderLabel(e.Key), value)
		}
	}
	return nil
}

func entryName(e *settings.Entry) string {
	if e.Definition != nil {
		return e.Definition.Name
	}
	return e.Key
}

func settingsEdit(ctx context.Context, app *App) error {
	if err := RequiresTTY("edit settings"); err != nil {
		return err
	}
	ui := prompt.New(app.Out)
	defer ui.Close()

	editor := &settings.Editor{
		Schema: app.schema(),
		Store:  app.settingsStore(),
		UI:     ui,
		Logger: app.logger(),
	}
	if err := editor.Run(ctx); err != nil {
		return err
	}
	if !app.Args.Quiet {
		fmt.Fprintf(app.Out, "%s saved settings for %s\n", okMark(), app.WidgetName())
	}
	return nil
}

// settingsSet applies one edit without prompting. Enum and bool values are
// matched by name; fonts and multivals take comma-separated fields and
// multiselects take comma-separated identifiers.
func settingsSet(app *App, key, value string) error {
	if key == "" {
		return ErrMissingArgument("CATEGORY.KEY", "zonedash settings set widget.padding 5")
	}
	category, item, ok := strings.Cut(key, ".")
	if !ok {
		return &ValidationError{Field: "key", Value: key, Reason: "expected CATEGORY.KEY", Example: "widget.padding"}
	}

	store := app.settingsStore()
	resolved, err := store.Resolve(app.schema(), true)
	if err != nil {
		return err
	}
	entry := resolved.Entry(category, item)
	if entry == nil {
		return &NotFoundError{Resource: "setting", ID: key}
	}

	in, err := settingInput(entry, value)
	if err != nil {
		return err
	}
	next, err := entry.Value.Apply(entry.Definition, in)
	if err != nil {
		return &ValidationError{Field: key, Value: value, Reason: err.Error()}
	}
	resolved.Set(category, item, next)
	if err := store.Save(resolved); err != nil {
		return err
	}

	if app.Args.JSON {
		return NewJSONResponse("settings set", SettingData{
			Category: category,
			Key:      item,
			Name:     entryName(entry),
			Type:     next.Type().String(),
			Value:    next.Display(),
		}).Write(app.Out)
	}
	if !app.Args.Quiet {
		fmt.Fprintf(app.Out, "%s %s = %s\n", okMark(), key, next.Display())
	}
	return nil
}

func settingInput(entry *settings.Entry, value string) (settings.Input, error) {
	def := entry.Definition
	switch entry.Value.Type() {
	case settings.TypeEnum:
		for i, opt := range def.Options {
			if strings.EqualFold(opt, value) {
				return settings.Input{Choice: i}, nil
			}
		}
		return settings.Input{}, &ValidationError{
			Field:   entry.Key,
			Value:   value,
			Reason:  "not an option",
			Example: strings.Join(def.Options, ", "),
		}
	case settings.TypeBool:
		b, err := ParseBoolString(value)
		if err != nil {
			return settings.Input{}, &ValidationError{Field: entry.Key, Value: value, Reason: err.Error()}
		}
		if b {
			return settings.Input{Choice: 0}, nil
		}
		return settings.Input{Choice: 1}, nil
	case settings.TypeMultiselect:
		var ids []string
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		return settings.Input{Selected: ids}, nil
	case settings.TypeFonts, settings.TypeMultival:
		fields := strings.Split(value, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		return settings.Input{Fields: fields}, nil
	default:
		return settings.Input{Fields: []string{value}}, nil
	}
}

func settingsReset(app *App) error {
	if err := app.settingsStore().Reset(); err != nil {
		return err
	}
	if !app.Args.Quiet {
		fmt.Fprintf(app.Out, "%s settings for %s reset to defaults\n", okMark(), app.WidgetName())
	}
	return nil
}

// HandleSchema handles "zonedash schema [--raw]".
func HandleSchema(_ context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw, "raw")
	schema := app.schema()
	if app.Args.JSON {
		return NewJSONResponse("schema", map[string]string{"markdown": schema.Reference()}).Write(app.Out)
	}
	if parser.BoolFlag("raw") || !ColorsEnabled() {
		fmt.Fprint(app.Out, schema.Reference())
		return nil
	}
	out, err := schema.RenderReference(GetTerminalWidth())
	if err != nil {
		return err
	}
	fmt.Fprint(app.Out, out)
	return nil
}
