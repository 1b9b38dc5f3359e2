// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and dispatch for zonedash.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdPreview Command = iota
	CmdRender
	CmdLayout
	CmdSettings
	CmdSchema
	CmdBackground
	CmdExport
	CmdImport
	CmdCache
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdPreview:    "preview",
	CmdRender:     "render",
	CmdLayout:     "layout",
	CmdSettings:   "settings",
	CmdSchema:     "schema",
	CmdBackground: "background",
	CmdExport:     "export",
	CmdImport:     "import",
	CmdCache:      "cache",
	CmdConfig:     "config",
	CmdVersion:    "version",
	CmdHelp:       "help",
}

// String returns the command name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose bool
	Quiet   bool
	JSON    bool // Output in JSON format
	Offline bool // Block every non-localhost request

	// ConfigPath loads configuration from a file instead of ~/.zonedash.
	ConfigPath string
	// Widget overrides widget.name.
	Widget string
	// Layout reads the layout source from a file.
	Layout string
	// Width overrides the render width; zero keeps the preview size.
	Width int
	// Dark is "dark", "light" or empty for the configured mode.
	Dark string

	// Command-specific
	Subcommand string

	// Raw args after the command name, global flags removed
	Raw []string
}

const usageText = `zonedash - terminal dashboard widgets

Zonedash compiles a dashboard layout, written as an ASCII table or as
keyword lines, and renders it in the terminal with the date, regional
COVID statistics and a sunrise-aware background.

Usage:
  zonedash                              Live preview (default)
  zonedash preview                      Live preview, re-render on file change
  zonedash render                       Compile and render once
  zonedash layout [show|check|save FILE]
                                        Print, check or store the layout source
  zonedash settings [show|edit|reset]   Resolved settings / interactive editor
  zonedash schema [--raw]               Settings reference
  zonedash background [show|auto|clear]
  zonedash background color HEX [DARK]
  zonedash background gradient INITIAL FINAL [INITIAL_DARK FINAL_DARK]
                                        Background document
  zonedash export [--clipboard] [--out FILE]
                                        Export layout, settings and background
  zonedash import FILE|- [--clipboard] [--name NAME]
                                        Import an exported bundle
  zonedash cache [show|clear]           Feed cache state (fresh / stale / absent)
  zonedash config [show|set KEY VALUE|path|keys]
                                        Application configuration
  zonedash version                      Version information
  zonedash help                         This help

Global Flags:
  --widget NAME        Widget to use (default from config, "main")
  --layout FILE        Read the layout from FILE instead of storage
  --width N            Render width in cells
  --dark, --light      Force dark or light colors
  --config FILE        Load configuration from FILE
  --offline            Block network requests; cached data only
  --json               Output in JSON format
  -q, --quiet          Suppress informational output
  -v, --verbose        Log compile diagnostics and requests to stderr

Layout Syntax:
  ASCII table           Keyword lines
    -------------         row
    | date | covid |        column
    -------------             date
                            column
                              covid

Environment:
  ZONEDASH_WIDGET, ZONEDASH_LAYOUT, ZONEDASH_STORAGE, ZONEDASH_DATA_DIR,
  ZONEDASH_OFFLINE, ZONEDASH_LATITUDE, ZONEDASH_LONGITUDE, ZONEDASH_DARK,
  NO_COLOR, FORCE_COLOR

Version: %s
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "zonedash version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args.
func Parse() (Command, Args, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv without the program name.
func ParseArgs(argv []string) (Command, Args, error) {
	remaining, parsedArgs, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, parsedArgs, err
	}

	// No command means the live preview
	if len(remaining) == 0 {
		return CmdPreview, parsedArgs, nil
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	for _, arg := range remaining {
		if !isFlag(arg) {
			parsedArgs.Subcommand = arg
			break
		}
	}

	switch cmd {
	case "preview", "watch":
		return CmdPreview, parsedArgs, nil
	case "render", "r":
		return CmdRender, parsedArgs, nil
	case "layout":
		return CmdLayout, parsedArgs, nil
	case "settings", "prefs", "preferences":
		return CmdSettings, parsedArgs, nil
	case "schema":
		return CmdSchema, parsedArgs, nil
	case "background", "bg":
		return CmdBackground, parsedArgs, nil
	case "export":
		return CmdExport, parsedArgs, nil
	case "import":
		return CmdImport, parsedArgs, nil
	case "cache":
		return CmdCache, parsedArgs, nil
	case "config":
		return CmdConfig, parsedArgs, nil
	case "version", "--version":
		return CmdVersion, parsedArgs, nil
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs, nil
	default:
		return CmdHelp, parsedArgs, &ValidationError{
			Field:   "command",
			Value:   cmd,
			Reason:  "unknown command",
			Example: "zonedash help",
		}
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags are accepted before or after the command.
func parseGlobalFlags(args []string) ([]string, Args, error) {
	var remaining []string
	var parsedArgs Args

	// value returns the flag value from "--flag=value" or the next argument.
	value := func(i *int, name string) (string, bool) {
		arg := args[*i]
		if strings.HasPrefix(arg, name+"=") {
			return strings.TrimPrefix(arg, name+"="), true
		}
		if arg == name && *i+1 < len(args) {
			*i++
			return args[*i], true
		}
		return "", arg == name
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name := arg
		if j := strings.IndexByte(arg, '='); j > 0 && strings.HasPrefix(arg, "--") {
			name = arg[:j]
		}

		switch name {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--offline", "--no-network":
			parsedArgs.Offline = true
		case "--dark":
			parsedArgs.Dark = "dark"
		case "--light":
			parsedArgs.Dark = "light"
		case "--widget", "--layout", "--config", "--width":
			v, ok := value(&i, name)
			if !ok {
				continue
			}
			if v == "" {
				return nil, parsedArgs, ErrMissingArgument(name, "zonedash render "+name+" VALUE")
			}
			switch name {
			case "--widget":
				parsedArgs.Widget = v
			case "--layout":
				parsedArgs.Layout = v
			case "--config":
				parsedArgs.ConfigPath = v
			case "--width":
				width, err := strconv.Atoi(v)
				if err != nil || width < 0 {
					return nil, parsedArgs, &ValidationError{
						Field:   "--width",
						Value:   v,
						Reason:  "must be a non-negative integer",
						Example: "zonedash render --width 40",
					}
				}
				parsedArgs.Width = width
			}
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsedArgs, nil
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes cmd against app.
func Run(ctx context.Context, cmd Command, app *App) error {
	switch cmd {
	case CmdPreview:
		return HandlePreview(ctx, app)
	case CmdRender:
		return HandleRender(ctx, app)
	case CmdLayout:
		return HandleLayout(ctx, app)
	case CmdSettings:
		return HandleSettings(ctx, app)
	case CmdSchema:
		return HandleSchema(ctx, app)
	case CmdBackground:
		return HandleBackground(ctx, app)
	case CmdExport:
		return HandleExport(ctx, app)
	case CmdImport:
		return HandleImport(ctx, app)
	case CmdCache:
		return HandleCache(ctx, app)
	case CmdConfig:
		return HandleConfig(ctx, app)
	case CmdVersion:
		return HandleVersion(app.Args, app.Out)
	default:
		PrintUsage(app.Out)
		return nil
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args, w io.Writer) error {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		return NewJSONResponse("version", data).Write(w)
	}
	PrintVersion(w)
	return nil
}
