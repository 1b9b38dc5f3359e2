// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and command handlers for
// zonedash.
//
// Every handler takes an *App carrying the configuration, storage
// backend, feed cache and data source, and writes to App.Out and App.Err,
// so commands can be run against in-memory storage in tests.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global flags and the remaining command arguments
//   - App: Collaborators shared by every command
//   - ArgParser: Subcommand, flag and positional parsing for one command
//   - JSONResponse: Envelope for --json output
//
// # Usage
//
//	cmd, args, err := cli.Parse()
//	app, err := cli.NewApp(cfg, args)
//	defer app.Close()
//	err = cli.Run(ctx, cmd, app)
//	os.Exit(cli.GetExitCode(err))
//
// # Commands Overview
//
//   - preview: live view that re-renders when the layout or documents change
//   - render: compile and print the widget once
//   - layout: show, check or store layout source
//   - settings, schema: widget preferences and their reference
//   - background: the widget's background document
//   - export, import: bundle round trip through a file or the clipboard
//   - cache: feed cache freshness
//   - config: application configuration
//
// All commands support the --json flag.
package cli
