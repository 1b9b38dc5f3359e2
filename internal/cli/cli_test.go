// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/zonedash/internal/cache"
	"github.com/jeranaias/zonedash/internal/config"
	"github.com/jeranaias/zonedash/internal/datasource"
	"github.com/jeranaias/zonedash/internal/feeds"
	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/storage"
	"github.com/jeranaias/zonedash/internal/ui/preview"
	"github.com/jeranaias/zonedash/internal/widget"
)

// =============================================================================
// HELPERS
// =============================================================================

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testApp struct {
	*App
	mem *storage.Memory
	out *bytes.Buffer
	err *bytes.Buffer
}

// newTestApp returns an app over memory storage with no data source, so
// nothing touches the network.
func newTestApp(t *testing.T, raw ...string) *testApp {
	t.Helper()
	ForceColorsEnabled(false)

	mem := storage.NewMemory()
	mem.SetClock(func() time.Time { return testNow })
	now := func() time.Time { return testNow }

	cfg := config.Default()
	cfg.Render.Dark = config.DarkOff

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &testApp{
		App: &App{
			Config:  cfg,
			Args:    Args{Raw: raw},
			Storage: mem,
			Cache:   cache.New(mem, cache.WithClock(now)),
			Schema:  settings.DefaultSchema(),
			Logger:  log.New(io.Discard, "", 0),
			Out:     out,
			Err:     errOut,
			In:      strings.NewReader(""),
			Now:     now,
		},
		mem: mem,
		out: out,
		err: errOut,
	}
}

func (a *testApp) with(raw ...string) *testApp {
	a.Args.Raw = raw
	a.out.Reset()
	a.err.Reset()
	return a
}

func decodeResponse(t *testing.T, data []byte, v any) *JSONResponse {
	t.Helper()
	var resp struct {
		JSONResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	if v != nil {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
	return &resp.JSONResponse
}

func writeFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		bools    []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "flag with value",
			args:    []string{"import", "--name", "home", "bundle.json"},
			wantSub: "import",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "home", p.Flag("name"))
				assert.Equal(t, "bundle.json", p.Positional(1))
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"export", "--out=bundle.json"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "bundle.json", p.Flag("--out"))
			},
		},
		{
			name:    "known boolean does not consume value",
			args:    []string{"--clipboard", "bundle.json"},
			bools:   []string{"clipboard"},
			wantSub: "bundle.json",
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("clipboard"))
				assert.True(t, p.HasFlag("--clipboard"))
			},
		},
		{
			name:    "explicit boolean",
			args:    []string{"show", "--raw=false"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				assert.False(t, p.BoolFlag("raw"))
				assert.True(t, p.HasFlag("raw"))
			},
		},
		{
			name:    "negative numbers are values",
			args:    []string{"set", "location.longitude", "-79.38"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, []string{"location.longitude", "-79.38"}, p.PositionalFrom(1))
			},
		},
		{
			name:    "dash is stdin",
			args:    []string{"-"},
			wantSub: "-",
		},
		{
			name:    "double dash ends flags",
			args:    []string{"set", "--", "--weird"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, 2, p.PositionalCount())
				assert.Equal(t, "--weird", p.Positional(1))
			},
		},
		{
			name:    "empty",
			args:    nil,
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "", p.Positional(3))
				assert.Empty(t, p.PositionalFrom(2))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, tt.bools...)
			assert.Equal(t, tt.wantSub, p.Subcommand())
			assert.Equal(t, tt.args, p.Raw())
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_FlagInt(t *testing.T) {
	p := NewArgParser([]string{"--width", "40", "--bad", "x"})
	n, err := p.FlagInt("width")
	require.NoError(t, err)
	assert.Equal(t, 40, n)
	assert.Equal(t, 7, p.FlagIntOrDefault("bad", 7))
	assert.Equal(t, 9, p.FlagIntOrDefault("missing", 9))
	assert.Equal(t, "fallback", p.FlagOrDefault("missing", "fallback"))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", "on"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "No", "n", "0", "off"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdPreview},
		{[]string{"preview"}, CmdPreview},
		{[]string{"render"}, CmdRender},
		{[]string{"r"}, CmdRender},
		{[]string{"layout", "check"}, CmdLayout},
		{[]string{"settings"}, CmdSettings},
		{[]string{"prefs"}, CmdSettings},
		{[]string{"schema"}, CmdSchema},
		{[]string{"bg", "auto"}, CmdBackground},
		{[]string{"export"}, CmdExport},
		{[]string{"import", "x.json"}, CmdImport},
		{[]string{"cache"}, CmdCache},
		{[]string{"config", "path"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--help"}, CmdHelp},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, " "), func(t *testing.T) {
			cmd, _, err := ParseArgs(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args, err := ParseArgs([]string{
		"render", "--widget", "home", "--layout=dash.ldl", "--width", "40",
		"--dark", "--offline", "--json", "-v", "-q", "--config", "z.toml", "--border",
	})
	require.NoError(t, err)
	assert.Equal(t, CmdRender, cmd)
	assert.Equal(t, "home", args.Widget)
	assert.Equal(t, "dash.ldl", args.Layout)
	assert.Equal(t, 40, args.Width)
	assert.Equal(t, "dark", args.Dark)
	assert.Equal(t, "z.toml", args.ConfigPath)
	assert.True(t, args.Offline)
	assert.True(t, args.JSON)
	assert.True(t, args.Verbose)
	assert.True(t, args.Quiet)
	assert.Equal(t, []string{"--border"}, args.Raw)

	_, args, err = ParseArgs([]string{"--light", "background", "color", "#112233"})
	require.NoError(t, err)
	assert.Equal(t, "light", args.Dark)
	assert.Equal(t, "color", args.Subcommand)
	assert.Equal(t, []string{"color", "#112233"}, args.Raw)
}

func TestParseArgs_Errors(t *testing.T) {
	_, _, err := ParseArgs([]string{"render", "--width", "wide"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, _, err = ParseArgs([]string{"render", "--widget"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	_, _, err = ParseArgs([]string{"frobnicate"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "frobnicate", verr.Value)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "render", CmdRender.String())
	assert.Equal(t, "background", CmdBackground.String())
	assert.Equal(t, "unknown", Command(99).String())
}

func TestRun_HelpAndVersion(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, Run(context.Background(), CmdHelp, app.App))
	assert.Contains(t, app.out.String(), "zonedash render")
	assert.Contains(t, app.out.String(), Version)

	app.with()
	require.NoError(t, Run(context.Background(), CmdVersion, app.App))
	assert.Contains(t, app.out.String(), "zonedash version "+Version)

	app.with()
	app.Args.JSON = true
	require.NoError(t, Run(context.Background(), CmdVersion, app.App))
	var data VersionData
	resp := decodeResponse(t, app.out.Bytes(), &data)
	assert.True(t, resp.Success)
	assert.Equal(t, Version, data.Version)
	assert.NotEmpty(t, data.GoVersion)
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", &ValidationError{Field: "x", Reason: "bad"}, ExitUsageError},
		{"tty", &TTYRequiredError{Operation: "edit"}, ExitUsageError},
		{"bundle", fmt.Errorf("import: %w", widget.ErrInvalidBundle), ExitUsageError},
		{"config", config.ValidateErrors{{Field: "render.dark", Message: "bad"}}, ExitConfigError},
		{"backend", fmt.Errorf("open: %w", storage.ErrUnknownBackend), ExitConfigError},
		{"background", widget.ErrBackgroundType, ExitConfigError},
		{"offline", fmt.Errorf("fetch: %w", datasource.ErrOffline), ExitNetworkError},
		{"not found", &NotFoundError{Resource: "setting", ID: "x.y"}, ExitNotFoundError},
		{"blob", fmt.Errorf("read: %w", storage.ErrNotFound), ExitNotFoundError},
		{"command", &CommandError{Command: "layout", Action: "check", Reason: "2 diagnostics"}, ExitGeneralError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := &ValidationError{Field: "color", Value: "zz", Reason: "not a hex color", Example: "#3A8CC1"}
	assert.Equal(t, "invalid color: not a hex color (got: zz)\nExample: #3A8CC1", err.Error())

	cause := errors.New("no xclip")
	cmdErr := &CommandError{Command: "export", Action: "copy", Reason: "clipboard unavailable", Err: cause}
	assert.Equal(t, "export copy failed: clipboard unavailable: no xclip", cmdErr.Error())
	assert.ErrorIs(t, cmdErr, cause)

	assert.Equal(t, "setting not found: a.b", (&NotFoundError{Resource: "setting", ID: "a.b"}).Error())
	assert.Contains(t, (&TTYRequiredError{Operation: "preview"}).Error(), "cannot preview")
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, nil, false)
	assert.Empty(t, buf.String())

	DisplayError(&buf, errors.New("boom"), false)
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	DisplayError(&buf, &NotFoundError{Resource: "setting", ID: "x"}, true)
	resp := decodeResponse(t, buf.Bytes(), nil)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "setting not found: x", *resp.Error)
	assert.Equal(t, "not_found_error", resp.ErrorType)
}

// =============================================================================
// RENDER AND LAYOUT TESTS
// =============================================================================

func TestRender_DefaultLayout(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, HandleRender(context.Background(), app.App))
	assert.Contains(t, app.out.String(), "Sunday")
	assert.Empty(t, app.err.String())
}

func TestRender_JSON(t *testing.T) {
	app := newTestApp(t)
	app.Args.JSON = true
	app.Args.Width = 40
	require.NoError(t, HandleRender(context.Background(), app.App))

	var data RenderData
	resp := decodeResponse(t, app.out.Bytes(), &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "render", resp.Command)
	assert.Equal(t, "main", data.Widget)
	assert.Equal(t, widget.DefaultPreview, data.Size)
	assert.False(t, data.Dark)
	assert.NotEmpty(t, data.Output)
	assert.Empty(t, data.Diagnostics)
}

func TestRender_Diagnostics(t *testing.T) {
	app := newTestApp(t)
	app.Args.Layout = writeFile(t, "dash.ldl", "row\n  column\n    date\n    wether\n")
	require.NoError(t, HandleRender(context.Background(), app.App))
	assert.Contains(t, app.err.String(), "1 layout problem")
	assert.Contains(t, app.err.String(), "wether")

	app.with()
	app.Args.Quiet = true
	require.NoError(t, HandleRender(context.Background(), app.App))
	assert.Empty(t, app.err.String())
}

func TestRender_MissingLayoutFile(t *testing.T) {
	app := newTestApp(t)
	app.Args.Layout = filepath.Join(t.TempDir(), "missing.ldl")
	err := HandleRender(context.Background(), app.App)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read layout")
}

func TestLayout_SaveShowCheck(t *testing.T) {
	app := newTestApp(t)
	path := writeFile(t, "dash.ldl", "row\n  column\n    text(hello)\n")

	require.NoError(t, HandleLayout(context.Background(), app.with("save", path).App))
	assert.Contains(t, app.out.String(), "saved layout for main")
	assert.True(t, app.mem.Exists(widget.LayoutName("main")))

	require.NoError(t, HandleLayout(context.Background(), app.with("show").App))
	assert.Equal(t, "row\n  column\n    text(hello)\n", app.out.String())
	assert.Contains(t, app.err.String(), widget.LayoutName("main"))

	require.NoError(t, HandleLayout(context.Background(), app.with("check").App))
	assert.Contains(t, app.out.String(), "[OK] layout compiles cleanly")

	app.with("check")
	app.Args.JSON = true
	require.NoError(t, HandleLayout(context.Background(), app.App))
	var data LayoutCheckData
	decodeResponse(t, app.out.Bytes(), &data)
	assert.True(t, data.Valid)
	assert.Equal(t, 1, data.Nodes)
}

func TestLayout_CheckReportsProblems(t *testing.T) {
	app := newTestApp(t)
	app.Args.Layout = writeFile(t, "dash.ldl", "row\n  column\n    nope\n")
	err := HandleLayout(context.Background(), app.with("check").App)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "check", cmdErr.Action)
	assert.Contains(t, app.err.String(), "nope")
}

func TestLayout_SaveFromStdinAndErrors(t *testing.T) {
	app := newTestApp(t)
	app.In = strings.NewReader("row\n  column\n    date\n")
	require.NoError(t, HandleLayout(context.Background(), app.with("save", "-").App))
	src, stored, err := widget.LoadLayout(app.mem, "main")
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, "row\n  column\n    date\n", src)

	err = HandleLayout(context.Background(), app.with("save").App)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleLayout(context.Background(), app.with("frob").App)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestLayoutSource_Order(t *testing.T) {
	app := newTestApp(t)
	src, origin, err := app.LayoutSource()
	require.NoError(t, err)
	assert.Equal(t, widget.DefaultLayout, src)
	assert.Equal(t, "default layout", origin)

	app.Config.Widget.LayoutFile = writeFile(t, "config.ldl", "date")
	src, origin, err = app.LayoutSource()
	require.NoError(t, err)
	assert.Equal(t, "date", src)
	assert.Equal(t, app.Config.Widget.LayoutFile, origin)

	app.Args.Layout = writeFile(t, "flag.ldl", "covid")
	src, _, err = app.LayoutSource()
	require.NoError(t, err)
	assert.Equal(t, "covid", src)
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestSettings_SetShowReset(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, HandleSettings(context.Background(), app.with("set", "widget.padding", "8").App))
	assert.Contains(t, app.out.String(), "widget.padding = 8")
	require.NoError(t, HandleSettings(context.Background(), app.with("set", "date.staticDateSize", "LARGE").App))
	require.NoError(t, HandleSettings(context.Background(), app.with("set", "date.dynamicDateSize", "no").App))
	require.NoError(t, HandleSettings(context.Background(), app.with("set", "font.greeting", "20,", "00ff00").App))

	resolved, err := app.settingsStore().Resolve(app.Schema, false)
	require.NoError(t, err)
	assert.Equal(t, "8", resolved.Text("widget", "padding"))
	assert.Equal(t, "large", resolved.Text("date", "staticDateSize"))
	assert.False(t, resolved.Bool("date", "dynamicDateSize"))
	font, ok := resolved.Font("font", "greeting")
	require.True(t, ok)
	assert.Equal(t, "20", font.Size)
	assert.Equal(t, "00ff00", font.Color)

	require.NoError(t, HandleSettings(context.Background(), app.with("show").App))
	assert.Contains(t, app.out.String(), "Overall settings (widget)")
	assert.Contains(t, app.out.String(), "padding")

	app.with("show")
	app.Args.JSON = true
	require.NoError(t, HandleSettings(context.Background(), app.App))
	var data []SettingData
	decodeResponse(t, app.out.Bytes(), &data)
	found := false
	for _, s := range data {
		if s.Category == "widget" && s.Key == "padding" {
			found = true
			assert.Equal(t, "8", s.Value)
			assert.Equal(t, "text", s.Type)
			assert.Equal(t, "Item padding", s.Name)
		}
	}
	assert.True(t, found)
	app.Args.JSON = false

	require.NoError(t, HandleSettings(context.Background(), app.with("reset").App))
	assert.False(t, app.mem.Exists(settings.PreferencesName("main")))
}

func TestSettings_SetErrors(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		args []string
		code int
	}{
		{[]string{"set"}, ExitUsageError},
		{[]string{"set", "padding", "5"}, ExitUsageError},
		{[]string{"set", "widget.nope", "5"}, ExitNotFoundError},
		{[]string{"set", "widget.preview", "huge"}, ExitUsageError},
		{[]string{"set", "widget.instantDark", "maybe"}, ExitUsageError},
		{[]string{"frob"}, ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			err := HandleSettings(context.Background(), app.with(tt.args...).App)
			assert.Equal(t, tt.code, GetExitCode(err))
		})
	}
}

func TestSettings_EditRequiresTTY(t *testing.T) {
	orig := isTTY
	isTTY = func() bool { return false }
	defer func() { isTTY = orig }()

	app := newTestApp(t)
	err := HandleSettings(context.Background(), app.with("edit").App)
	var ttyErr *TTYRequiredError
	assert.ErrorAs(t, err, &ttyErr)
}

func TestSchema_Raw(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, HandleSchema(context.Background(), app.with("--raw").App))
	assert.True(t, strings.HasPrefix(app.out.String(), "# Settings"))
	assert.Contains(t, app.out.String(), "`staticDateSize`")
}

// =============================================================================
// BACKGROUND TESTS
// =============================================================================

func TestBackground_Commands(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, HandleBackground(ctx, app.with("show").App))
	assert.Contains(t, app.out.String(), "no background set")

	require.NoError(t, HandleBackground(ctx, app.with("color", "3A8CC1", "#113245").App))
	bg, err := widget.LoadBackground(app.mem, "main")
	require.NoError(t, err)
	assert.Equal(t, &widget.Background{Type: "color", Color: "#3a8cc1", Dark: "#113245"}, bg)

	require.NoError(t, HandleBackground(ctx, app.with("gradient", "#3A8CC1", "#90C0DF", "#16296B", "#113245").App))
	bg, err = widget.LoadBackground(app.mem, "main")
	require.NoError(t, err)
	assert.Equal(t, "gradient", bg.Type)
	assert.Equal(t, "#16296b", bg.InitialDark)

	require.NoError(t, HandleBackground(ctx, app.with("show").App))
	assert.Contains(t, app.out.String(), "gradient")
	assert.Contains(t, app.out.String(), "#90c0df")

	require.NoError(t, HandleBackground(ctx, app.with("auto").App))
	bg, err = widget.LoadBackground(app.mem, "main")
	require.NoError(t, err)
	assert.Equal(t, "auto", bg.Type)

	require.NoError(t, HandleBackground(ctx, app.with("clear").App))
	assert.False(t, app.mem.Exists(widget.BackgroundName("main")))
}

func TestBackground_Errors(t *testing.T) {
	app := newTestApp(t)
	for _, args := range [][]string{
		{"color"},
		{"color", "nothex"},
		{"gradient", "#000000"},
		{"gradient", "#000000", "#111111", "#222222"},
		{"image"},
		{"sparkles"},
	} {
		err := HandleBackground(context.Background(), app.with(args...).App)
		assert.Equal(t, ExitUsageError, GetExitCode(err), args)
	}
	assert.False(t, app.mem.Exists(widget.BackgroundName("main")))
}

// =============================================================================
// BUNDLE TESTS
// =============================================================================

func TestExportImport(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, widget.SaveLayout(app.mem, "main", "row\n  column\n    date\n"))
	require.NoError(t, HandleSettings(ctx, app.with("set", "widget.padding", "3").App))
	require.NoError(t, HandleBackground(ctx, app.with("auto").App))

	require.NoError(t, HandleExport(ctx, app.with().App))
	exported := app.out.String()
	bundle, err := widget.ParseBundle([]byte(exported))
	require.NoError(t, err)
	assert.Equal(t, "main", bundle.Name)

	path := writeFile(t, "bundle.json", exported)
	require.NoError(t, HandleImport(ctx, app.with(path, "--name", "copy").App))
	assert.Contains(t, app.out.String(), "imported main into copy")

	src, stored, err := widget.LoadLayout(app.mem, "copy")
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, "row\n  column\n    date\n", src)
	bg, err := widget.LoadBackground(app.mem, "copy")
	require.NoError(t, err)
	assert.Equal(t, "auto", bg.Type)
	resolved, err := settings.NewStore(app.mem, settings.PreferencesName("copy")).Resolve(app.Schema, false)
	require.NoError(t, err)
	assert.Equal(t, "3", resolved.Text("widget", "padding"))
}

func TestExport_OutFile(t *testing.T) {
	app := newTestApp(t)
	out := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, HandleExport(context.Background(), app.with("--out", out).App))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	_, err = widget.ParseBundle(data)
	assert.NoError(t, err)
	assert.Contains(t, app.err.String(), "exported main")
}

func TestExportImport_Clipboard(t *testing.T) {
	var board string
	origRead, origWrite := readClipboard, writeClipboard
	readClipboard = func() (string, error) { return board, nil }
	writeClipboard = func(s string) error { board = s; return nil }
	defer func() { readClipboard, writeClipboard = origRead, origWrite }()

	app := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, HandleExport(ctx, app.with("--clipboard").App))
	assert.Contains(t, board, `"name": "main"`)

	app.Args.Widget = "pasted"
	require.NoError(t, HandleImport(ctx, app.with("--clipboard").App))
	assert.True(t, app.mem.Exists(settings.PreferencesName("pasted")))

	writeClipboard = func(string) error { return errors.New("no clipboard utility") }
	err := HandleExport(ctx, app.with("--clipboard").App)
	var cmdErr *CommandError
	assert.ErrorAs(t, err, &cmdErr)
}

func TestImport_Errors(t *testing.T) {
	app := newTestApp(t)
	err := HandleImport(context.Background(), app.with().App)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	app.In = strings.NewReader("{not json")
	err = HandleImport(context.Background(), app.with("-").App)
	assert.ErrorIs(t, err, widget.ErrInvalidBundle)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// CACHE TESTS
// =============================================================================

func TestCache_ShowAndClear(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Cache.Put(feeds.SunBlob, map[string]string{"sunrise": "06:50"}))
	app.mem.Touch(feeds.SunBlob, testNow.Add(-90*time.Minute))
	require.NoError(t, app.Cache.Put(feeds.CovidBlob("NB"), map[string]any{}))
	app.mem.Touch(feeds.CovidBlob("NB"), testNow.Add(-2*time.Hour))

	app.with("show")
	app.Args.JSON = true
	require.NoError(t, HandleCache(context.Background(), app.App))
	var data []CacheEntryData
	decodeResponse(t, app.out.Bytes(), &data)
	require.Len(t, data, 3)

	byName := map[string]CacheEntryData{}
	for _, e := range data {
		byName[e.Name] = e
	}
	assert.Equal(t, "absent", byName[feeds.LocationBlob].State)
	assert.False(t, byName[feeds.LocationBlob].Present)
	assert.Equal(t, "stale", byName[feeds.SunBlob].State)
	assert.Equal(t, 90.0, byName[feeds.SunBlob].AgeMinutes)
	assert.Equal(t, "absent", byName[feeds.CovidBlob("NB")].State)
	assert.True(t, byName[feeds.CovidBlob("NB")].Present)

	app.Args.JSON = false
	require.NoError(t, HandleCache(context.Background(), app.with().App))
	assert.Contains(t, app.out.String(), "never fetched")
	assert.Contains(t, app.out.String(), "1h30m ago")

	require.NoError(t, HandleCache(context.Background(), app.with("clear").App))
	assert.Contains(t, app.out.String(), "removed 2 cached feeds")
	assert.False(t, app.mem.Exists(feeds.SunBlob))
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3*time.Hour + 12*time.Minute, "3h12m ago"},
		{72 * time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAge(tt.d))
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{
		"ZONEDASH_WIDGET", "ZONEDASH_LAYOUT", "ZONEDASH_STORAGE", "ZONEDASH_DATA_DIR",
		"ZONEDASH_OFFLINE", "ZONEDASH_LATITUDE", "ZONEDASH_LONGITUDE", "ZONEDASH_DARK",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestConfig_SetGetPath(t *testing.T) {
	isolateConfig(t)
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "zonedash.toml")
	app.Args.ConfigPath = path
	ctx := context.Background()

	require.NoError(t, HandleConfig(ctx, app.with("set", "render.width", "40").App))
	require.NoError(t, HandleConfig(ctx, app.with("set", "network.offline", "yes").App))
	require.NoError(t, HandleConfig(ctx, app.with("set", "location.longitude", "-66.64").App))

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Render.Width)
	assert.True(t, cfg.Network.Offline)
	assert.Equal(t, -66.64, cfg.Location.Longitude)

	require.NoError(t, HandleConfig(ctx, app.with("path").App))
	assert.Equal(t, path+"\n", app.out.String())

	require.NoError(t, HandleConfig(ctx, app.with("get", "widget.name").App))
	assert.Equal(t, "main\n", app.out.String())

	require.NoError(t, HandleConfig(ctx, app.with("keys").App))
	assert.Contains(t, app.out.String(), "render.hyperlinks")

	require.NoError(t, HandleConfig(ctx, app.with("show").App))
	assert.Contains(t, app.out.String(), "[render]")
}

func TestConfig_SetErrors(t *testing.T) {
	isolateConfig(t)
	app := newTestApp(t)
	app.Args.ConfigPath = filepath.Join(t.TempDir(), "zonedash.toml")
	ctx := context.Background()

	assert.Equal(t, ExitUsageError, GetExitCode(HandleConfig(ctx, app.with("set").App)))
	assert.Equal(t, ExitNotFoundError, GetExitCode(HandleConfig(ctx, app.with("set", "render.colour", "x").App)))
	assert.Equal(t, ExitUsageError, GetExitCode(HandleConfig(ctx, app.with("set", "render.width", "wide").App)))
	assert.Equal(t, ExitConfigError, GetExitCode(HandleConfig(ctx, app.with("set", "render.dark", "purple").App)))
	assert.Equal(t, ExitUsageError, GetExitCode(HandleConfig(ctx, app.with("frob").App)))
	_, err := os.Stat(app.Args.ConfigPath)
	assert.True(t, os.IsNotExist(err))
}

// =============================================================================
// APP AND PREVIEW TESTS
// =============================================================================

func TestNewApp_AppliesOverrides(t *testing.T) {
	isolateConfig(t)
	defer datasource.SetOfflineMode(false)

	cfg := config.Default()
	cfg.Storage.Backend = storage.BackendMemory
	app, err := NewApp(cfg, Args{Widget: "home", Offline: true, Dark: "dark", Width: 50})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "home", app.WidgetName())
	assert.True(t, cfg.Network.Offline)
	assert.True(t, datasource.IsOfflineMode())
	assert.True(t, app.DarkMode())
	opts, size := app.RenderOptions()
	assert.Equal(t, 50, opts.Size.Width)
	assert.Equal(t, widget.DefaultPreview, size)
	assert.IsType(t, &storage.Memory{}, app.Storage)
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "s3"
	_, err := NewApp(cfg, Args{})
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestResolveDark(t *testing.T) {
	origDark, origTTY := hasDarkBackground, isStdoutTTY
	defer func() { hasDarkBackground, isStdoutTTY = origDark, origTTY }()
	hasDarkBackground = func() bool { return true }
	isStdoutTTY = func() bool { return true }

	assert.True(t, ResolveDark(config.DarkOn))
	assert.False(t, ResolveDark(config.DarkOff))
	assert.True(t, ResolveDark(config.DarkAuto))

	isStdoutTTY = func() bool { return false }
	assert.False(t, ResolveDark(config.DarkAuto))
}

func TestColorDecision(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		tty  bool
		want bool
	}{
		{"tty", nil, true, true},
		{"pipe", nil, false, false},
		{"no color wins", map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}, true, false},
		{"forced on pipe", map[string]string{"FORCE_COLOR": "1"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.want, colorDecision(getenv, func() bool { return tt.tty }))
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := isolateConfig(t)
	assert.Equal(t, filepath.Join(home, "dash.ldl"), expandHome("~/dash.ldl"))
	assert.Equal(t, "/abs/dash.ldl", expandHome("/abs/dash.ldl"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}

func TestPreview_RunsProgram(t *testing.T) {
	origRun, origTTY := runProgram, isTTY
	defer func() { runProgram, isTTY = origRun, origTTY }()
	isTTY = func() bool { return true }

	var got tea.Model
	runProgram = func(m tea.Model, _ ...tea.ProgramOption) error {
		got = m
		return nil
	}

	app := newTestApp(t)
	require.NoError(t, HandlePreview(context.Background(), app.App))
	model, ok := got.(preview.Model)
	require.True(t, ok)
	assert.Equal(t, widget.DefaultPreview, model.Size())
	assert.False(t, model.DarkMode())
}

func TestPreview_RequiresTTY(t *testing.T) {
	orig := isTTY
	isTTY = func() bool { return false }
	defer func() { isTTY = orig }()

	err := HandlePreview(context.Background(), newTestApp(t).App)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestWatchedFiles(t *testing.T) {
	app := newTestApp(t)
	assert.Empty(t, watchedFiles(app.App))

	dir := t.TempDir()
	files, err := storage.NewFiles(dir)
	require.NoError(t, err)
	app.Storage = files
	app.Args.Layout = filepath.Join(dir, "dash.ldl")

	assert.Equal(t, []string{
		filepath.Join(dir, "dash.ldl"),
		filepath.Join(dir, settings.PreferencesName("main")),
		filepath.Join(dir, widget.BackgroundName("main")),
		filepath.Join(dir, widget.LayoutName("main")),
	}, watchedFiles(app.App))
}
