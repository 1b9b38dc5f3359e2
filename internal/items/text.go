// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package items

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jeranaias/zonedash/internal/settings"
)

// SystemFonts are the font names that select a weight of the terminal's
// own font rather than a named font.
var SystemFonts = []string{
	"ultralight", "light", "regular", "medium", "semibold",
	"bold", "heavy", "black", "italic",
}

// ProvideFont normalizes a font name. System weights are lowercased and
// an empty name selects "regular"; anything else is kept as a named font.
func ProvideFont(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "regular"
	}
	lower := strings.ToLower(name)
	for _, f := range SystemFonts {
		if lower == f {
			return f
		}
	}
	return name
}

// Capitalize applies a caps setting to s.
func Capitalize(s, caps string, tag language.Tag) string {
	switch caps {
	case settings.CapsUpper:
		return cases.Upper(tag).String(s)
	case settings.CapsLower:
		return cases.Lower(tag).String(s)
	case settings.CapsTitle:
		return cases.Title(tag).String(s)
	default:
		return s
	}
}

// FormatNumber formats n with the grouping and decimal separators of tag,
// keeping at most three fraction digits.
func FormatNumber(n float64, tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
}

var tokenPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ReplaceTokens substitutes each {name} in s with lookup(name). Tokens for
// which lookup reports false are left in place.
func ReplaceTokens(s string, lookup func(name string) (string, bool)) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		if v, ok := lookup(tok[1 : len(tok)-1]); ok {
			return v
		}
		return tok
	})
}

// PlainNumber formats n without grouping, dropping a zero fraction.
func PlainNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
