// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package items

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jeranaias/zonedash/internal/feeds"
	"github.com/jeranaias/zonedash/internal/layout"
	"github.com/jeranaias/zonedash/internal/settings"
)

var renderTime = time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)

func resolved(t *testing.T, doc string) *settings.Resolved {
	t.Helper()
	d, err := settings.ParseDocument([]byte(doc))
	require.NoError(t, err)
	return settings.DefaultSchema().Resolve(d, false)
}

func testEnv(t *testing.T, doc string) *Env {
	t.Helper()
	return &Env{
		Settings: resolved(t, doc),
		Now:      renderTime,
		Locale:   "en_CA",
		Padding:  5,
		Logger:   log.New(io.Discard, "", 0),
	}
}

type stubFeeds struct {
	data     *feeds.Covid
	province string
}

func (s *stubFeeds) Covid(_ context.Context, province string) *feeds.Covid {
	s.province = province
	return s.data
}

// =============================================================================
// DISPATCH
// =============================================================================

func TestCompileLayout_KeywordTree(t *testing.T) {
	tree := CompileLayout(context.Background(), "row\n  column\n    date()", testEnv(t, ""), nil)

	assert.False(t, tree.HasDiagnostics())
	assert.Equal(t, layout.SyntaxKeyword, tree.Syntax)
	assert.Len(t, tree.Rows(), 1)
	assert.Equal(t, 1, tree.Root.Count(layout.KindColumn))
	items := tree.Root.Find(layout.KindItem)
	require.Len(t, items, 1)
	assert.Equal(t, "date", items[0].Name)
}

func TestCompileLayout_ASCIITree(t *testing.T) {
	src := `
--------------------
|  date  | text(hi)|
--------------------
`
	tree := CompileLayout(context.Background(), src, testEnv(t, ""), nil)

	assert.False(t, tree.HasDiagnostics())
	assert.Equal(t, layout.SyntaxASCII, tree.Syntax)
	assert.Len(t, tree.Rows(), 1)
	assert.Equal(t, 2, tree.Root.Count(layout.KindColumn))
	assert.Contains(t, tree.Root.Texts(), "hi")
}

func TestCompileLayout_UnknownItemContinues(t *testing.T) {
	tree := CompileLayout(context.Background(), "row\ncolumn\nweather\ntext(after)", testEnv(t, ""), nil)

	require.Len(t, tree.Diagnostics, 1)
	assert.ErrorIs(t, tree.Diagnostics[0], layout.ErrUnknownItem)
	assert.Equal(t, "weather", tree.Diagnostics[0].Item)
	assert.Equal(t, 3, tree.Diagnostics[0].Line)
	assert.Equal(t, []string{"after"}, tree.Root.Texts())
}

func TestCompileLayout_CustomBeforeBuiltin(t *testing.T) {
	custom := map[string]Handler{
		"date": HandlerFunc(func(_ context.Context, c *Call) error {
			c.Container.AddText("custom date")
			return nil
		}),
		"greeting": HandlerFunc(func(_ context.Context, c *Call) error {
			c.Container.AddText("hello " + c.Param)
			return nil
		}),
	}
	tree := CompileLayout(context.Background(), "date\ngreeting(world)", testEnv(t, ""), custom)

	assert.False(t, tree.HasDiagnostics())
	assert.Equal(t, []string{"custom date", "hello world"}, tree.Root.Texts())
}

func TestCompileLayout_PanickingHandlerContinues(t *testing.T) {
	custom := map[string]Handler{
		"boom": HandlerFunc(func(_ context.Context, _ *Call) error {
			var m map[string]int
			m["x"] = 1
			return nil
		}),
	}

	var tree *layout.Tree
	require.NotPanics(t, func() {
		tree = CompileLayout(context.Background(), "row\ncolumn\nboom\ndate", testEnv(t, ""), custom)
	})

	require.Len(t, tree.Diagnostics, 1)
	assert.ErrorIs(t, tree.Diagnostics[0], ErrHandlerPanic)
	assert.Equal(t, "boom", tree.Diagnostics[0].Item)
	assert.Equal(t, 3, tree.Diagnostics[0].Line)

	found := tree.Root.Find(layout.KindItem)
	require.Len(t, found, 2)
	assert.Equal(t, "date", found[1].Name)
	assert.NotEmpty(t, found[1].Texts())
}

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry(testEnv(t, ""))
	b := layout.NewBuilder(&layout.Node{Kind: layout.KindWidget})

	err := r.Dispatch(context.Background(), b, "nope", "")
	assert.ErrorIs(t, err, layout.ErrUnknownItem)
	assert.Empty(t, b.Root().Children)

	require.NoError(t, r.Dispatch(context.Background(), b, "right", ""))
	assert.Equal(t, layout.AlignRight, b.Alignment())

	require.NoError(t, r.Dispatch(context.Background(), b, "row", "40"))
	require.NoError(t, r.Dispatch(context.Background(), b, "column", "120"))
	assert.Equal(t, 40, b.Row().Height)
	assert.Equal(t, 120, b.Column().Width)
	assert.Equal(t, layout.AlignLeft, b.Alignment())

	require.NoError(t, r.Dispatch(context.Background(), b, "space", "10"))
	require.NoError(t, r.Dispatch(context.Background(), b, "space", ""))
	spacers := b.Column().Find(layout.KindSpacer)
	require.Len(t, spacers, 2)
	assert.Equal(t, 10, spacers[0].Length)
	assert.True(t, spacers[1].Flexible)
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry(nil)
	var names []string
	for _, item := range r.Builtins() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"center", "column", "covid", "date", "left", "right", "row", "space", "symbol", "text"}, names)
	assert.True(t, r.Known("covid"))
	assert.False(t, r.Known("weather"))

	r.RegisterCustom("weather", HandlerFunc(func(context.Context, *Call) error { return nil }))
	r.RegisterCustom("date", HandlerFunc(func(context.Context, *Call) error { return nil }))
	assert.Equal(t, []string{"center", "column", "covid", "date", "left", "right", "row", "space", "symbol", "text", "weather"}, r.Names())
}

// =============================================================================
// CONTENT ITEMS
// =============================================================================

func TestDateItem(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		src   string
		texts []string
	}{
		{"dynamic shows large", "", "date", []string{"Monday,"}},
		{"static small", `{"date":{"dynamicDateSize":false}}`, "date", []string{"Monday, May 4"}},
		{"static large", `{"date":{"dynamicDateSize":false,"staticDateSize":"large"}}`, "date", []string{"Monday,"}},
		{"param forces small", "", "date(small)", []string{"Monday, May 4"}},
		{"caps", `{"date":{"dynamicDateSize":false},"font":{"smallDate":{"size":"17","caps":"ALL CAPS"}}}`, "date", []string{"MONDAY, MAY 4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := CompileLayout(context.Background(), tt.src, testEnv(t, tt.doc), nil)
			assert.False(t, tree.HasDiagnostics())
			assert.Equal(t, tt.texts, tree.Root.Texts())
		})
	}
}

func TestDateItem_LargePadding(t *testing.T) {
	tree := CompileLayout(context.Background(), "date", testEnv(t, ""), nil)
	text := tree.Root.Find(layout.KindText)[0]
	assert.Equal(t, "light", text.Style.Font)
	assert.Equal(t, 30, text.Style.Size)

	stacks := tree.Root.Find(layout.KindStack)
	require.Len(t, stacks, 2)
	assert.Equal(t, layout.Insets{Top: 2, Left: 5, Bottom: 0, Right: 5}, stacks[1].Padding)
}

func covidData() *feeds.Covid {
	return &feeds.Covid{Features: []feeds.Feature{
		{Attributes: map[string]any{"ENGNAME": "Zone 0 (Elsewhere)"}},
		{Attributes: map[string]any{
			"ENGNAME":          "Zone 1 (Moncton area)",
			"Last_Updated":     float64(1777817100000),
			"CurrentCaseCount": float64(1234),
			"CurrentDeaths":    float64(0),
			"CurrentRecovered": float64(1000),
			"CurrentTests":     float64(56789),
			"TotalPop2019":     float64(200000),
		}},
	}}
}

func TestCovidItem(t *testing.T) {
	env := testEnv(t, "")
	stub := &stubFeeds{data: covidData()}
	env.Feeds = stub

	tree := CompileLayout(context.Background(), "covid", env, nil)
	require.False(t, tree.HasDiagnostics(), "%v", tree.Diagnostics)

	assert.Equal(t, "NB", stub.province)
	assert.Equal(t, []string{
		"Covid-19 Stats - (Moncton area)",
		"Last Updated: 5/3/2026 14:05\n",
		"Active Cases:234, Cases:1,234, Deaths:, Recoveries:1,000, Tests:56,789, Population:200,000, Infected/K:6.17",
	}, tree.Root.Texts())

	stack := tree.Root.Find(layout.KindStack)[1]
	assert.Equal(t, layout.Horizontal, stack.Axis)
	assert.True(t, stack.CenterContent)
	assert.Equal(t, "https://covid19.who.int", stack.URL)
	assert.Equal(t, layout.Insets{Top: 2, Left: 5, Bottom: 2, Right: 5}, stack.Padding)

	texts := tree.Root.Find(layout.KindText)
	assert.Equal(t, "semibold", texts[0].Style.Font)
	assert.Equal(t, "1aff05", texts[0].Style.Color)
	assert.Equal(t, "medium", texts[2].Style.Font)
	assert.Equal(t, 15, texts[2].Style.Size)
}

func TestCovidItem_MissingZone(t *testing.T) {
	env := testEnv(t, `{"covid":{"Zone":"7"}}`)
	env.Feeds = &stubFeeds{data: covidData()}

	tree := CompileLayout(context.Background(), "covid\ntext(ok)", env, nil)
	require.Len(t, tree.Diagnostics, 1)
	assert.ErrorIs(t, tree.Diagnostics[0], feeds.ErrNoZone)
	assert.Equal(t, []string{"ok"}, tree.Root.Texts())
}

func TestSymbolItem(t *testing.T) {
	tree := CompileLayout(context.Background(), "symbol(circle)\nsymbol(rect)", testEnv(t, ""), nil)
	texts := tree.Root.Find(layout.KindText)
	require.Len(t, texts, 2)
	assert.Equal(t, SymbolCircle, texts[0].Text)
	assert.Equal(t, SymbolRect, texts[1].Text)
	assert.Equal(t, 18, texts[0].Style.Size)
	assert.Equal(t, "ffffff", texts[0].Style.Color)
}

func TestTintIcon(t *testing.T) {
	tests := []struct {
		tint    string
		dark    bool
		instant bool
		want    bool
	}{
		{settings.IconsNever, true, false, false},
		{settings.IconsAlways, false, false, true},
		{settings.IconsDark, false, false, false},
		{settings.IconsDark, true, false, true},
		{settings.IconsDark, false, true, true},
		{settings.IconsLight, true, false, false},
		{settings.IconsLight, false, false, true},
	}
	for _, tt := range tests {
		env := testEnv(t, "")
		env.DarkMode = tt.dark
		env.Settings.Set("widget", "tintIcons", settings.Enum(tt.tint))
		env.Settings.Set("widget", "instantDark", settings.Bool(tt.instant))
		assert.Equal(t, tt.want, TintIcon(env), "%s dark=%v instant=%v", tt.tint, tt.dark, tt.instant)
	}
}

// =============================================================================
// TEXT PROVISIONING
// =============================================================================

func TestProvideColor(t *testing.T) {
	greeting := &settings.Font{Color: "1aff05", Dark: "00aa00"}

	env := testEnv(t, "")
	assert.Equal(t, layout.TextStyle{Color: "ffffff"}, env.ProvideColor(nil))
	assert.Equal(t, layout.TextStyle{Color: "1aff05"}, env.ProvideColor(greeting))

	env.DarkMode = true
	assert.Equal(t, layout.TextStyle{Color: "00aa00"}, env.ProvideColor(greeting))
	assert.Equal(t, layout.TextStyle{Color: "ffffff"}, env.ProvideColor(&settings.Font{Color: "123456"}))

	env = testEnv(t, `{"widget":{"instantDark":true}}`)
	assert.Equal(t, layout.TextStyle{Color: "1aff05", Dark: "00aa00", Dynamic: true}, env.ProvideColor(greeting))
}

func TestProvideText_Standardize(t *testing.T) {
	env := testEnv(t, "")
	root := &layout.Node{Kind: layout.KindWidget}
	b := layout.NewBuilder(root)
	b.SetAlignment(layout.AlignCenter)

	node := env.ProvideText(b, "hello", root, &settings.Font{Size: "abc", Font: "BOLD"}, true)
	assert.Equal(t, "bold", node.Style.Font)
	assert.Equal(t, 14, node.Style.Size)

	outer := root.Children[0]
	require.Len(t, outer.Children, 3)
	assert.True(t, outer.Children[0].Flexible)
	assert.Equal(t, layout.Insets{Top: 5, Left: 5, Bottom: 5, Right: 5}, outer.Children[1].Padding)
	assert.True(t, outer.Children[2].Flexible)
}

func TestCapitalize(t *testing.T) {
	tag := language.English
	assert.Equal(t, "HELLO WORLD", Capitalize("hello world", settings.CapsUpper, tag))
	assert.Equal(t, "hello world", Capitalize("Hello WORLD", settings.CapsLower, tag))
	assert.Equal(t, "Hello World", Capitalize("hello wORLD", settings.CapsTitle, tag))
	assert.Equal(t, "hello wORLD", Capitalize("hello wORLD", settings.CapsNone, tag))
}

func TestProvideFont(t *testing.T) {
	assert.Equal(t, "regular", ProvideFont(""))
	assert.Equal(t, "semibold", ProvideFont("SemiBold"))
	assert.Equal(t, "Menlo", ProvideFont("Menlo"))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234.5", FormatNumber(1234.5, language.English))
	assert.Equal(t, "6.17", FormatNumber(6.17, language.English))
	assert.Equal(t, "0.333", FormatNumber(1.0/3, language.English))
	assert.Equal(t, "1.234,5", FormatNumber(1234.5, language.German))
}

func TestPlainNumber(t *testing.T) {
	assert.Equal(t, "234", PlainNumber(234))
	assert.Equal(t, "-12", PlainNumber(-12))
	assert.Equal(t, "2.5", PlainNumber(2.5))
}

func TestReplaceTokens(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "a" {
			return "1", true
		}
		return "", false
	}
	assert.Equal(t, "x=1 y={b}", ReplaceTokens("x={a} y={b}", lookup))
}

func TestEnv_Tag(t *testing.T) {
	assert.Equal(t, language.MustParse("en-CA"), (&Env{Locale: "en_CA"}).Tag())
	assert.Equal(t, language.English, (&Env{}).Tag())
	assert.Equal(t, language.English, (&Env{Locale: "!!"}).Tag())
}

// =============================================================================
// DATE FORMATTING
// =============================================================================

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, 1, 9, 7, 5, 3, 0, time.UTC)
	tests := []struct {
		pattern string
		want    string
	}{
		{"EEEE, MMMM d", "Friday, January 9"},
		{"EEE MMM dd", "Fri Jan 09"},
		{"M/d/yy", "1/9/26"},
		{"yyyy-MM-dd", "2026-01-09"},
		{"h:mm a", "7:05 AM"},
		{"HH:mm:ss", "07:05:03"},
		{"EEEEE", "F"},
		{"'Today is' EEEE", "Today is Friday"},
		{"h 'o''clock'", "7 o'clock"},
		{"''", "'"},
		{"Q", "Q"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(ts, tt.pattern))
		})
	}
}

func TestFormatDate_Noon(t *testing.T) {
	assert.Equal(t, "12 PM", FormatDate(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "h a"))
	assert.Equal(t, "12 AM", FormatDate(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "h a"))
}

func TestUpdatedString(t *testing.T) {
	assert.Equal(t, "5/3/2026 14:05", UpdatedString(time.Date(2026, 5, 3, 14, 5, 0, 0, time.UTC)))
}
