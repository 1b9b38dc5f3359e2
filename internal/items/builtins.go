// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package items

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jeranaias/zonedash/internal/layout"
	"github.com/jeranaias/zonedash/internal/settings"
	"github.com/jeranaias/zonedash/internal/util"
)

func (r *Registry) registerBuiltins() {
	// Structural
	r.Register(&Item{
		Name:        "row",
		Description: "Start a new row",
		Usage:       "row(height)",
		Kind:        KindStructural,
		Handler:     HandlerFunc(rowItem),
	})
	r.Register(&Item{
		Name:        "column",
		Description: "Start a new column in the current row",
		Usage:       "column(width)",
		Kind:        KindStructural,
		Handler:     HandlerFunc(columnItem),
	})
	r.Register(&Item{
		Name:        layout.ItemSpace,
		Description: "Add a fixed or flexible space",
		Usage:       "space(length)",
		Kind:        KindStructural,
		Handler:     HandlerFunc(spaceItem),
	})
	for _, name := range []string{layout.ItemLeft, layout.ItemRight, layout.ItemCenter} {
		r.Register(&Item{
			Name:        name,
			Description: "Align the following items to the " + name,
			Usage:       name,
			Kind:        KindStructural,
			Handler:     HandlerFunc(alignItem),
		})
	}

	// Content
	r.Register(&Item{
		Name:        "date",
		Description: "Show the current date",
		Usage:       "date or date(small|large)",
		Kind:        KindContent,
		Handler:     HandlerFunc(dateItem),
	})
	r.Register(&Item{
		Name:        "covid",
		Description: "Show COVID-19 statistics for the configured zone",
		Usage:       "covid",
		Kind:        KindContent,
		Handler:     HandlerFunc(covidItem),
	})
	r.Register(&Item{
		Name:        "text",
		Description: "Show custom text",
		Usage:       "text(Hello there)",
		Kind:        KindContent,
		Handler:     HandlerFunc(textItem),
	})
	r.Register(&Item{
		Name:        "symbol",
		Description: "Show a text symbol",
		Usage:       "symbol(rect|circle)",
		Kind:        KindContent,
		Handler:     HandlerFunc(symbolItem),
	})
}

// =============================================================================
// STRUCTURAL ITEMS
// =============================================================================

func rowItem(_ context.Context, c *Call) error {
	c.Builder.OpenRow(util.LeadingIntOr(c.Param, 0))
	return nil
}

func columnItem(_ context.Context, c *Call) error {
	c.Builder.OpenColumn(util.LeadingIntOr(c.Param, 0))
	return nil
}

func spaceItem(_ context.Context, c *Call) error {
	if n, ok := util.LeadingInt(c.Param); ok {
		c.Container.AddSpacer(n)
	} else {
		c.Container.AddFlexibleSpacer()
	}
	return nil
}

func alignItem(_ context.Context, c *Call) error {
	a, ok := layout.ParseAlignment(c.Name)
	if !ok {
		return fmt.Errorf("unknown alignment %q", c.Name)
	}
	c.Builder.SetAlignment(a)
	return nil
}

// =============================================================================
// CONTENT ITEMS
// =============================================================================

// smallDate reports whether the date item shows its one-line form. There
// is no calendar source, so dynamic sizing always sees zero events.
func smallDate(env *Env, param string) bool {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "small":
		return true
	case "large":
		return false
	}
	if env.flag("date", "dynamicDateSize") {
		return false
	}
	return env.text("date", "staticDateSize") == "small"
}

func dateItem(_ context.Context, c *Call) error {
	env := c.Env
	if smallDate(env, c.Param) {
		env.ProvideText(c.Builder, FormatDate(env.Now, env.text("date", "smallDateFormat")),
			c.Container, env.Format("smallDate"), true)
		return nil
	}

	p := env.Padding
	stack := c.Builder.Align(c.Container)
	env.ProvideText(c.Builder, FormatDate(env.Now, env.text("date", "largeDateLineOne")),
		stack, env.Format("largeDate1"), false)
	stack.SetPadding(p/2, p, 0, p)
	return nil
}

func covidItem(ctx context.Context, c *Call) error {
	env := c.Env
	if env.Feeds == nil {
		return nil
	}
	data := env.Feeds.Covid(ctx, env.text("covid", "Province"))
	zone, err := data.Zone(env.text("covid", "Zone"))
	if err != nil {
		return err
	}

	p := env.Padding
	stack := c.Builder.Align(c.Container)
	stack.SetPadding(p/2, p, p/2, p)
	stack.Axis = layout.Horizontal
	stack.CenterContent = true
	stack.URL = strings.TrimSpace(env.text("covid", "url"))
	stack.AddSpacer(int(float64(p) * 0.3))
	stack.AddSpacer(p)

	tag := env.Tag()
	greeting := env.Format("greeting")

	env.ProvideText(c.Builder, "Covid-19 Stats - "+util.SafeSubstring(zone.String("ENGNAME"), 7, 25),
		c.Container, greeting, false)
	updated := ""
	if t, ok := zone.Time("Last_Updated"); ok {
		updated = UpdatedString(t.In(env.Now.Location()))
	}
	env.ProvideText(c.Builder, "Last Updated: "+updated+"\n", c.Container, greeting, false)

	cases, _ := zone.Number("CurrentCaseCount")
	recovered, _ := zone.Number("CurrentRecovered")
	pop, _ := zone.Number("TotalPop2019")

	stats := ReplaceTokens(strings.TrimSpace(env.text("covid", "covidtext")), func(name string) (string, bool) {
		if n, ok := zone.Number(name); ok {
			if n == 0 {
				return "", true
			}
			return FormatNumber(n, tag), true
		}
		return zone.String(name), true
	})

	infected := "-"
	if perK := cases / (pop / 1000); !math.IsNaN(perK) && !math.IsInf(perK, 0) {
		infected = FormatNumber(perK, tag)
	}

	line := fmt.Sprintf("Active Cases:%s, %s, Population:%s, Infected/K:%s",
		PlainNumber(cases-recovered), stats, FormatNumber(pop, tag), infected)
	env.ProvideText(c.Builder, line, c.Container, env.Format("covid"), false)
	return nil
}

func textItem(_ context.Context, c *Call) error {
	if strings.TrimSpace(c.Param) == "" {
		return nil
	}
	c.Env.ProvideText(c.Builder, c.Param, c.Container, c.Env.Format("customText"), true)
	return nil
}

// Symbol glyphs.
const (
	SymbolRect   = "❙"
	SymbolCircle = "⬤"
)

// TextSymbol returns the glyph for a shape name. Unknown shapes are
// drawn as a rectangle.
func TextSymbol(shape string) string {
	if shape == "circle" {
		return SymbolCircle
	}
	return SymbolRect
}

func symbolItem(_ context.Context, c *Call) error {
	env := c.Env
	p := env.Padding

	stack := c.Builder.Align(c.Container)
	pad := settings.Multival(nil)
	if env.Settings != nil {
		pad = env.Settings.Multival("symbol", "padding")
	}
	side := func(key string) int {
		return util.LeadingIntOr(pad.Get(key), p)
	}
	stack.SetPadding(side("top"), side("left"), side("bottom"), side("right"))

	node := stack.AddText(TextSymbol(strings.TrimSpace(c.Param)))
	node.Style.Font = "regular"
	node.Style.Size = util.LeadingIntOr(env.text("symbol", "size"), 0)

	tint := strings.TrimSpace(env.text("symbol", "tintColor"))
	if tint != "" && !TintIcon(env) {
		node.Style.Color = tint
	} else {
		def := env.DefaultText()
		node.Style = mergeColor(node.Style, env.ProvideColor(&def))
	}
	return nil
}

// TintIcon reports whether icons take the text color under the
// widget.tintIcons setting.
func TintIcon(env *Env) bool {
	tint := env.text("widget", "tintIcons")
	instant := env.flag("widget", "instantDark")
	switch tint {
	case "", settings.IconsNever:
		return false
	case settings.IconsDark:
		return env.DarkMode || instant
	case settings.IconsLight:
		return !env.DarkMode || instant
	}
	return true
}

func mergeColor(style, color layout.TextStyle) layout.TextStyle {
	style.Color = color.Color
	style.Dark = color.Dark
	style.Dynamic = color.Dynamic
	return style
}
