// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package items

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate formats t with a Unicode date pattern such as "EEEE, MMMM d".
// Text in single quotes is copied literally and '' is a quote. Letters
// without a field meaning are copied unchanged.
func FormatDate(t time.Time, pattern string) string {
	var sb strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		if r == '\'' {
			i = quoted(&sb, runes, i)
			continue
		}
		if !isLetter(r) {
			sb.WriteRune(r)
			i++
			continue
		}
		j := i
		for j < len(runes) && runes[j] == r {
			j++
		}
		sb.WriteString(dateField(t, r, j-i))
		i = j
	}
	return sb.String()
}

// quoted copies the literal starting at the quote at runes[i] and returns
// the index after the closing quote.
func quoted(sb *strings.Builder, runes []rune, i int) int {
	if i+1 < len(runes) && runes[i+1] == '\'' {
		sb.WriteRune('\'')
		return i + 2
	}
	j := i + 1
	for j < len(runes) {
		if runes[j] == '\'' {
			if j+1 < len(runes) && runes[j+1] == '\'' {
				sb.WriteRune('\'')
				j += 2
				continue
			}
			return j + 1
		}
		sb.WriteRune(runes[j])
		j++
	}
	return j
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func dateField(t time.Time, r rune, n int) string {
	switch r {
	case 'y':
		if n == 2 {
			return fmt.Sprintf("%02d", t.Year()%100)
		}
		return fmt.Sprintf("%0*d", n, t.Year())
	case 'M', 'L':
		return nameField(int(t.Month()), t.Month().String(), n)
	case 'd':
		return padNumber(t.Day(), n)
	case 'D':
		return padNumber(t.YearDay(), n)
	case 'E':
		name := t.Weekday().String()
		switch {
		case n <= 3:
			return name[:3]
		case n == 4:
			return name
		case n == 5:
			return name[:1]
		default:
			return name[:2]
		}
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return padNumber(h, n)
	case 'H':
		return padNumber(t.Hour(), n)
	case 'm':
		return padNumber(t.Minute(), n)
	case 's':
		return padNumber(t.Second(), n)
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	}
	return strings.Repeat(string(r), n)
}

func nameField(v int, name string, n int) string {
	switch n {
	case 1, 2:
		return padNumber(v, n)
	case 3:
		return name[:3]
	case 5:
		return name[:1]
	default:
		return name
	}
}

func padNumber(v, width int) string {
	if width <= 1 {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%0*d", width, v)
}

// UpdatedString formats t as "M/D/YYYY HH:MM".
func UpdatedString(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d %02d:%02d", int(t.Month()), t.Day(), t.Year(), t.Hour(), t.Minute())
}
