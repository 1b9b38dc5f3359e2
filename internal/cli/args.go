// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing shared by every zonedash command.

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits the arguments after a command name into flags and
// positionals. The first positional is the subcommand.
//
// Accepted forms are "--flag value", "--flag=value", "-f value" and a bare
// "--flag". A bare "-" is a positional (stdin) and "--" ends flag parsing.
// Numbers such as -79.38 are values, not flags.
type ArgParser struct {
	values     map[string]string
	switches   map[string]bool
	positional []string
	raw        []string
	// noValue holds flags that never take the next argument.
	noValue map[string]bool
}

// NewArgParser parses raw. Flags named in boolFlags never consume the
// following argument, so "import --clipboard FILE" keeps FILE positional.
//
//	p := NewArgParser([]string{"gradient", "#112233", "--name=home", "--raw"}, "raw")
//	p.Subcommand()    // "gradient"
//	p.Positional(1)   // "#112233"
//	p.Flag("name")    // "home"
//	p.BoolFlag("raw") // true
func NewArgParser(raw []string, boolFlags ...string) *ArgParser {
	p := &ArgParser{
		values:     make(map[string]string),
		switches:   make(map[string]bool),
		positional: []string{},
		raw:        raw,
		noValue:    make(map[string]bool, len(boolFlags)),
	}
	for _, name := range boolFlags {
		p.noValue[flagName(name)] = true
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		switch {
		case arg == "--":
			p.positional = append(p.positional, raw[i+1:]...)
			return p
		case !isFlag(arg):
			p.positional = append(p.positional, arg)
		case strings.Contains(arg, "="):
			name, value, _ := strings.Cut(arg, "=")
			p.set(flagName(name), value)
		default:
			name := flagName(arg)
			if !p.noValue[name] && i+1 < len(raw) && !isFlag(raw[i+1]) {
				i++
				p.values[name] = raw[i]
			} else {
				p.switches[name] = true
			}
		}
	}
	return p
}

// set records an inline "--name=value"; true and false make a switch.
func (p *ArgParser) set(name, value string) {
	if value == "true" || value == "false" {
		p.switches[name] = value == "true"
		return
	}
	p.values[name] = value
}

// Subcommand returns the first positional, e.g. "show" in "settings show".
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Flag returns a value flag, or "" when absent. Leading dashes in name are
// ignored.
func (p *ArgParser) Flag(name string) string {
	return p.values[flagName(name)]
}

// FlagOrDefault returns the flag value or def.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v := p.Flag(name); v != "" {
		return v
	}
	return def
}

// FlagInt parses a value flag as an integer.
func (p *ArgParser) FlagInt(name string) (int, error) {
	v := p.Flag(name)
	if v == "" {
		return 0, fmt.Errorf("flag %s not found", name)
	}
	return strconv.Atoi(v)
}

// FlagIntOrDefault returns FlagInt, or def when it fails.
func (p *ArgParser) FlagIntOrDefault(name string, def int) int {
	if n, err := p.FlagInt(name); err == nil {
		return n
	}
	return def
}

// BoolFlag reports whether a switch is set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.switches[flagName(name)]
}

// HasFlag reports whether the flag was given in any form.
func (p *ArgParser) HasFlag(name string) bool {
	name = flagName(name)
	_, isValue := p.values[name]
	_, isSwitch := p.switches[name]
	return isValue || isSwitch
}

// Positional returns the positional at index, or "". Index 0 is the
// subcommand: in "config set render.width 40", Positional(1) is
// "render.width".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns the positionals from index on.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return []string{}
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positionals.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// Raw returns the unparsed arguments.
func (p *ArgParser) Raw() []string {
	return p.raw
}

// =============================================================================
// HELPERS
// =============================================================================

func flagName(arg string) string {
	return strings.TrimLeft(arg, "-")
}

// isFlag reports whether arg is a flag rather than a value.
func isFlag(arg string) bool {
	return strings.HasPrefix(arg, "-") && arg != "-" && !isNumber(arg)
}

func isNumber(arg string) bool {
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}

// ParseBoolString accepts true/false, yes/no, y/n, 1/0 and on/off in any
// case.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", s)
}
