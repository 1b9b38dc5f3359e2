// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Reference returns a markdown description of every setting in the schema.
func (s *Schema) Reference() string {
	var sb strings.Builder
	sb.WriteString("# Settings\n\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&sb, "## %s (`%s`)\n\n", c.Name, c.Key)
		sb.WriteString("| Key | Type | Default | Description |\n")
		sb.WriteString("|-----|------|---------|-------------|\n")
		for _, d := range c.Items {
			desc := d.Description
			if len(d.Options) > 0 {
				desc = strings.TrimSpace(desc + " Options: " + strings.Join(d.Options, ", ") + ".")
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n",
				d.Key, d.Type, escapeCell(d.Default.Display()), escapeCell(desc))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderReference renders the reference for a terminal of the given width.
func (s *Schema) RenderReference(width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(s.Reference())
	if err != nil {
		return "", fmt.Errorf("render reference: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
