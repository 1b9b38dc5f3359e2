// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package highlight

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// Defaults for Options.
const (
	DefaultStyle     = "monokai"
	DefaultFormatter = "terminal256"
)

// Structural item names drawn as keywords.
var keywords = []string{"row", "column", "left", "right", "center", "space"}

// Options selects the chroma style and formatter.
type Options struct {
	Style     string
	Formatter string
}

func alternation(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			quoted = append(quoted, regexp.QuoteMeta(n))
		}
	}
	// Longest first so "column" is not matched as a prefix item.
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return strings.Join(quoted, "|")
}

// Lexer returns a layout lexer. Names in known are items; structural
// names are keywords; any other identifier is an error.
func Lexer(known []string) chroma.Lexer {
	var items []string
	isKeyword := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		isKeyword[k] = true
	}
	for _, n := range known {
		if !isKeyword[n] {
			items = append(items, n)
		}
	}

	word := `[A-Za-z_][\w-]*`
	root := []chroma.Rule{
		{Pattern: `\s+`, Type: chroma.TextWhitespace},
		{Pattern: `-{2,}`, Type: chroma.Punctuation},
		{Pattern: `\|`, Type: chroma.Punctuation},
		{Pattern: `(` + alternation(keywords) + `)(?![\w-])`, Type: chroma.Keyword},
	}
	if len(items) > 0 {
		root = append(root, chroma.Rule{
			Pattern: `(` + alternation(items) + `)(\()([^)\n]*)(\))`,
			Type:    chroma.ByGroups(chroma.NameFunction, chroma.Punctuation, chroma.LiteralString, chroma.Punctuation),
		}, chroma.Rule{
			Pattern: `(` + alternation(items) + `)(?![\w-])`,
			Type:    chroma.NameFunction,
		})
	}
	root = append(root,
		chroma.Rule{Pattern: `(\()([^)\n]*)(\))`, Type: chroma.ByGroups(chroma.Punctuation, chroma.LiteralString, chroma.Punctuation)},
		chroma.Rule{Pattern: `\d+`, Type: chroma.LiteralNumber},
		chroma.Rule{Pattern: word, Type: chroma.Error},
		chroma.Rule{Pattern: `[.,]`, Type: chroma.Punctuation},
		chroma.Rule{Pattern: `.`, Type: chroma.Text},
	)
	rules := chroma.Rules{"root": root}

	return chroma.MustNewLexer(&chroma.Config{
		Name:      "ZoneDash Layout",
		Aliases:   []string{"ldl", "zonedash"},
		Filenames: []string{"*.ldl"},
	}, func() chroma.Rules { return rules })
}

// Source highlights layout source for the terminal.
func Source(src string, known []string, opts Options) (string, error) {
	styleName := opts.Style
	if styleName == "" {
		styleName = DefaultStyle
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatterName := opts.Formatter
	if formatterName == "" {
		formatterName = DefaultFormatter
	}
	formatter := formatters.Get(formatterName)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := chroma.Coalesce(Lexer(known)).Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("tokenise layout: %w", err)
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("format layout: %w", err)
	}
	return buf.String(), nil
}
