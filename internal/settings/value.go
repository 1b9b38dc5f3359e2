// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// TYPE TAGS
// =============================================================================

// Type is the type tag of a setting definition.
type Type int

const (
	TypeText Type = iota
	TypeEnum
	TypeBool
	TypeFonts
	TypeMultival
	TypeMultiselect
)

// String returns the tag as written in the persisted schema.
func (t Type) String() string {
	switch t {
	case TypeEnum:
		return "enum"
	case TypeBool:
		return "bool"
	case TypeFonts:
		return "fonts"
	case TypeMultival:
		return "multival"
	case TypeMultiselect:
		return "multiselect"
	default:
		return "text"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ErrShape is returned when a persisted value does not fit its type.
var ErrShape = errors.New("value does not match setting type")

// ErrChoice is returned when an edit selects an option that does not exist.
var ErrChoice = errors.New("choice out of range")

// =============================================================================
// VALUE
// =============================================================================

// Value is a typed setting value. The set of implementations is closed;
// each one knows how to decode itself from a persisted document, render
// its display text and apply an edit.
type Value interface {
	Type() Type
	// Display returns the one-line summary shown in editor listings.
	Display() string
	// Apply returns the value produced by an edit. The receiver is not
	// modified.
	Apply(def *Definition, in Input) (Value, error)

	decode(raw json.RawMessage) (Value, error)
}

// Input carries the user's answer to an edit prompt.
type Input struct {
	// Fields are text field contents: one for text, size/color/dark/font
	// for fonts, and one per key in order for multival.
	Fields []string
	// Choice is the selected option index for enum and bool, or the caps
	// option index for fonts when Fields is nil.
	Choice int
	// Selected holds the chosen identifiers for multiselect.
	Selected []string
}

// Text is a free text value.
type Text string

func (Text) Type() Type        { return TypeText }
func (v Text) Display() string { return string(v) }
func (v Text) String() string  { return string(v) }

// Apply trims the first text field.
func (v Text) Apply(_ *Definition, in Input) (Value, error) {
	if len(in.Fields) == 0 {
		return v, nil
	}
	return Text(strings.TrimSpace(in.Fields[0])), nil
}

func (Text) decode(raw json.RawMessage) (Value, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Text(s), nil
	}
	// Numbers and booleans written by hand are kept as their literal text.
	var scalar any
	if err := json.Unmarshal(raw, &scalar); err == nil {
		switch scalar.(type) {
		case float64, bool:
			return Text(strings.TrimSpace(string(raw))), nil
		}
	}
	return nil, fmt.Errorf("%w: want text", ErrShape)
}

// Enum is one of a definition's options.
type Enum string

func (Enum) Type() Type        { return TypeEnum }
func (v Enum) Display() string { return string(v) }
func (v Enum) String() string  { return string(v) }

// Apply selects the option at in.Choice.
func (v Enum) Apply(def *Definition, in Input) (Value, error) {
	if def == nil || in.Choice < 0 || in.Choice >= len(def.Options) {
		return v, fmt.Errorf("%w: %d", ErrChoice, in.Choice)
	}
	return Enum(def.Options[in.Choice]), nil
}

func (Enum) decode(raw json.RawMessage) (Value, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: want string option", ErrShape)
	}
	return Enum(s), nil
}

// Bool is a boolean value.
type Bool bool

func (Bool) Type() Type        { return TypeBool }
func (v Bool) Display() string { return strconv.FormatBool(bool(v)) }

// BoolOptions are the choices presented when editing a Bool.
var BoolOptions = []string{"true", "false"}

// Apply maps choice 0 to true and any other choice to false.
func (v Bool) Apply(_ *Definition, in Input) (Value, error) {
	return Bool(in.Choice == 0), nil
}

func (Bool) decode(raw json.RawMessage) (Value, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return Bool(b), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return Bool(parsed), nil
		}
	}
	return nil, fmt.Errorf("%w: want bool", ErrShape)
}

// =============================================================================
// FONTS
// =============================================================================

// Font is the text style of one text role.
type Font struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Dark  string `json:"dark"`
	Font  string `json:"font"`
	Caps  string `json:"caps"`
}

// FontFields are the text fields edited for a Font, in order.
var FontFields = []string{"size", "color", "dark", "font"}

func (Font) Type() Type { return TypeFonts }

// Display summarizes size, font, colors and capitalization.
func (v Font) Display() string {
	var sb strings.Builder
	if v.Size != "" {
		sb.WriteString("size " + v.Size)
	}
	if v.Font != "" {
		sb.WriteString(" " + v.Font)
	}
	if v.Color != "" {
		sb.WriteString(" (" + v.Color)
		if v.Dark != "" {
			sb.WriteString("/" + v.Dark)
		}
		sb.WriteString(")")
	}
	if v.Caps != "" && v.Caps != CapsNone {
		sb.WriteString(" - " + v.Caps)
	}
	return strings.TrimSpace(sb.String())
}

// Fields returns the editable field values in FontFields order.
func (v Font) Fields() []string {
	return []string{v.Size, v.Color, v.Dark, v.Font}
}

// Apply replaces size, color, dark and font from in.Fields, or sets the
// caps option at in.Choice when no fields are given.
func (v Font) Apply(_ *Definition, in Input) (Value, error) {
	out := v
	if in.Fields == nil {
		if in.Choice < 0 || in.Choice >= len(CapsOptions) {
			return v, fmt.Errorf("%w: %d", ErrChoice, in.Choice)
		}
		out.Caps = CapsOptions[in.Choice]
		return out, nil
	}
	field := func(i int) string {
		if i < len(in.Fields) {
			return strings.TrimSpace(in.Fields[i])
		}
		return ""
	}
	out.Size, out.Color, out.Dark, out.Font = field(0), field(1), field(2), field(3)
	return out, nil
}

func (Font) decode(raw json.RawMessage) (Value, error) {
	if !isObject(raw) {
		return nil, fmt.Errorf("%w: want font object", ErrShape)
	}
	var f Font
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	return f, nil
}

// =============================================================================
// MULTIVAL
// =============================================================================

// Field is one key of a Multival.
type Field struct {
	Key   string
	Value string
}

// Multival is an ordered set of named text values. Order is preserved
// through JSON encoding.
type Multival []Field

func (Multival) Type() Type { return TypeMultival }

// Display renders "key: value" pairs.
func (v Multival) Display() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.Key + ": " + f.Value
	}
	return strings.Join(parts, ", ")
}

// Get returns the value for key.
func (v Multival) Get(key string) string {
	for _, f := range v {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Keys returns the keys in order.
func (v Multival) Keys() []string {
	keys := make([]string, len(v))
	for i, f := range v {
		keys[i] = f.Key
	}
	return keys
}

// Values returns the values in key order.
func (v Multival) Values() []string {
	vals := make([]string, len(v))
	for i, f := range v {
		vals[i] = f.Value
	}
	return vals
}

// Apply assigns in.Fields to the keys in order, trimming each.
func (v Multival) Apply(_ *Definition, in Input) (Value, error) {
	out := make(Multival, len(v))
	copy(out, v)
	for i := range out {
		if i < len(in.Fields) {
			out[i].Value = strings.TrimSpace(in.Fields[i])
		}
	}
	return out, nil
}

// MarshalJSON writes an object with keys in order.
func (v Multival) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v Multival) decode(raw json.RawMessage) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: want object", ErrShape)
	}
	var out Multival
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShape, err)
		}
		key, _ := keyTok.(string)
		var val any
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShape, err)
		}
		var s string
		switch t := val.(type) {
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case nil:
		default:
			return nil, fmt.Errorf("%w: %s is not text", ErrShape, key)
		}
		out = append(out, Field{Key: key, Value: s})
	}
	return v.merge(out), nil
}

// merge keeps the persisted fields whose keys v defines, in persisted
// order, then appends v's remaining fields. An empty v accepts any keys.
func (v Multival) merge(persisted Multival) Multival {
	if len(v) == 0 {
		return persisted
	}
	seen := make(map[string]bool, len(v))
	out := make(Multival, 0, len(v))
	for _, f := range persisted {
		if seen[f.Key] || !containsKey(v, f.Key) {
			continue
		}
		seen[f.Key] = true
		out = append(out, f)
	}
	for _, f := range v {
		if !seen[f.Key] {
			out = append(out, f)
		}
	}
	return out
}

func containsKey(v Multival, key string) bool {
	for _, f := range v {
		if f.Key == key {
			return true
		}
	}
	return false
}

// =============================================================================
// MULTISELECT
// =============================================================================

// Option is one selectable entry of a multiselect definition.
type Option struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Color      string `json:"color,omitempty"`
}

// Selection is the chosen subset of a multiselect definition's options.
type Selection []Option

func (Selection) Type() Type { return TypeMultiselect }

// Display joins the option titles.
func (v Selection) Display() string {
	titles := make([]string, len(v))
	for i, o := range v {
		titles[i] = o.Title
	}
	return strings.Join(titles, ", ")
}

// Identifiers returns the selected identifiers in order.
func (v Selection) Identifiers() []string {
	ids := make([]string, len(v))
	for i, o := range v {
		ids[i] = o.Identifier
	}
	return ids
}

// Apply keeps the definition's options whose identifier is in
// in.Selected, in the definition's original order.
func (v Selection) Apply(def *Definition, in Input) (Value, error) {
	if def == nil {
		return v, nil
	}
	chosen := make(map[string]bool, len(in.Selected))
	for _, id := range in.Selected {
		chosen[id] = true
	}
	out := Selection{}
	for _, o := range def.Choices {
		if chosen[o.Identifier] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (Selection) decode(raw json.RawMessage) (Value, error) {
	var opts []Option
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("%w: want option list", ErrShape)
	}
	return Selection(opts), nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
