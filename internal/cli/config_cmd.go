// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - The config command: show and change application
// configuration.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/zonedash/internal/config"
)

const configUsage = "zonedash config [show|get KEY|set KEY VALUE|path|keys]"

// HandleConfig handles "zonedash config".
func HandleConfig(_ context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw)
	switch parser.Subcommand() {
	case "", "show":
		return configShow(app)
	case "get":
		return configGet(app, parser.Positional(1))
	case "set":
		return configSet(app, parser.Positional(1), strings.Join(parser.PositionalFrom(2), " "))
	case "path":
		return configPath(app)
	case "keys":
		keys := config.GetAllKeys()
		if app.Args.JSON {
			return NewJSONResponse("config keys", keys).Write(app.Out)
		}
		for _, k := range keys {
			fmt.Fprintln(app.Out, k)
		}
		return nil
	default:
		return ErrUnknownSubcommand("config", parser.Subcommand(), configUsage)
	}
}

func (a *App) configFile() (string, error) {
	if a.Args.ConfigPath != "" {
		return expandHome(a.Args.ConfigPath), nil
	}
	return config.ConfigPathTOML()
}

func configShow(app *App) error {
	cfg := app.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if app.Args.JSON {
		return NewJSONResponse("config show", cfg).Write(app.Out)
	}
	return toml.NewEncoder(app.Out).Encode(cfg)
}

func configGet(app *App, key string) error {
	if key == "" {
		return ErrMissingArgument("KEY", "zonedash config get render.width")
	}
	cfg := app.Config
	if cfg == nil {
		cfg = config.Default()
	}
	v, err := cfg.Get(key)
	if err != nil {
		return &NotFoundError{Resource: "config key", ID: key}
	}
	if app.Args.JSON {
		return NewJSONResponse("config get", map[string]any{"key": key, "value": v}).Write(app.Out)
	}
	fmt.Fprintln(app.Out, v)
	return nil
}

// configSet edits the file on disk rather than app.Config, so command-line
// overrides are not persisted.
func configSet(app *App, key, value string) error {
	if key == "" {
		return ErrMissingArgument("KEY", "zonedash config set render.width 40")
	}

	path, err := app.configFile()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFromPath(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return err
	}

	current, err := cfg.Get(key)
	if err != nil {
		return &NotFoundError{Resource: "config key", ID: key}
	}
	var next any = value
	if _, ok := current.(bool); ok {
		b, err := ParseBoolString(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: err.Error()}
		}
		next = b
	}
	if err := cfg.Set(key, next); err != nil {
		return &ValidationError{Field: key, Value: value, Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return err
	}

	if app.Args.JSON {
		v, _ := cfg.Get(key)
		return NewJSONResponse("config set", map[string]any{"key": key, "value": v, "path": path}).Write(app.Out)
	}
	if !app.Args.Quiet {
		fmt.Fprintf(app.Out, "%s %s = %s (%s)\n", okMark(), key, value, path)
	}
	return nil
}

func configPath(app *App) error {
	path, err := app.configFile()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil
	if app.Args.JSON {
		return NewJSONResponse("config path", map[string]any{"path": path, "exists": exists}).Write(app.Out)
	}
	fmt.Fprintln(app.Out, path)
	if !exists && !app.Args.Quiet {
		fmt.Fprintln(app.Err, DimStyle.Render("(not created yet; defaults in use)"))
	}
	return nil
}
