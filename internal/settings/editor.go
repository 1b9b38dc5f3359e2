// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrDismissed is returned by an InteractiveUI when the user backs out of
// a prompt. The edit in progress is abandoned and nothing changes.
var ErrDismissed = errors.New("prompt dismissed")

// InteractiveUI presents the prompts the editor needs.
type InteractiveUI interface {
	// Choose presents options and returns the selected index.
	Choose(ctx context.Context, title, message string, options []string) (int, error)
	// EditFields presents labeled text fields prefilled with values and
	// returns the edited values in the same order.
	EditFields(ctx context.Context, title, message string, labels, values []string) ([]string, error)
}

// Menu labels used by the editor.
const (
	MenuDone     = "Done"
	MenuBack     = "Back"
	FontFieldsOp = "Size, color and font"
	FontCapsOp   = "Capitalization"
)

// Editor walks the user through the settings tree. Every applied edit
// rebuilds the listing it came from, and the whole tree is saved when the
// user finishes.
type Editor struct {
	Schema *Schema
	Store  *Store
	UI     InteractiveUI
	// Logger receives one line per applied edit. Nil uses log.Default().
	Logger *log.Logger
	// OnChange, when set, is called after each applied edit.
	OnChange func(r *Resolved)
}

func (e *Editor) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

// Run loads the editing tree, lets the user edit categories until they
// choose Done or dismiss the menu, then saves.
func (e *Editor) Run(ctx context.Context) error {
	tree, err := e.Store.Resolve(e.Schema, true)
	if err != nil {
		return err
	}

	for {
		options := make([]string, 0, len(tree.Categories)+1)
		for _, c := range tree.Categories {
			options = append(options, c.Name)
		}
		options = append(options, MenuDone)

		idx, err := e.UI.Choose(ctx, "Preferences", "", options)
		if errors.Is(err, ErrDismissed) || (err == nil && idx == len(tree.Categories)) {
			break
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx > len(tree.Categories) {
			continue
		}
		if err := e.EditCategory(ctx, tree, tree.Categories[idx]); err != nil {
			return err
		}
	}

	if err := e.Store.Save(tree); err != nil {
		return err
	}
	e.logger().Printf("settings: saved %s", e.Store.Name())
	return nil
}

// EditCategory lists a category's entries until the user goes back.
func (e *Editor) EditCategory(ctx context.Context, tree *Resolved, cat *ResolvedCategory) error {
	for {
		options := make([]string, 0, len(cat.Entries)+1)
		for _, entry := range cat.Entries {
			options = append(options, entryLabel(entry))
		}
		options = append(options, MenuBack)

		idx, err := e.UI.Choose(ctx, cat.Name, "", options)
		if errors.Is(err, ErrDismissed) || (err == nil && idx == len(cat.Entries)) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx > len(cat.Entries) {
			continue
		}

		entry := cat.Entries[idx]
		changed, err := e.EditEntry(ctx, entry)
		if err != nil {
			return err
		}
		if changed {
			e.logger().Printf("settings: %s.%s = %s", cat.Key, entry.Key, entry.Value.Display())
			if e.OnChange != nil {
				e.OnChange(tree)
			}
		}
	}
}

// EditEntry prompts for one entry according to its type. It reports
// whether the value changed. A dismissed prompt leaves the value as-is.
func (e *Editor) EditEntry(ctx context.Context, entry *Entry) (bool, error) {
	def := entry.Definition
	if def == nil {
		return false, fmt.Errorf("edit %s: entry has no definition", entry.Key)
	}

	in, err := e.prompt(ctx, entry)
	if errors.Is(err, ErrDismissed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	next, err := entry.Value.Apply(def, in)
	if errors.Is(err, ErrChoice) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	entry.Value = next
	return true, nil
}

func (e *Editor) prompt(ctx context.Context, entry *Entry) (Input, error) {
	def := entry.Definition
	switch v := entry.Value.(type) {
	case Text:
		fields, err := e.UI.EditFields(ctx, def.Name, def.Description, nil, []string{string(v)})
		return Input{Fields: fields}, err

	case Enum:
		idx, err := e.UI.Choose(ctx, def.Name, def.Description, def.Options)
		return Input{Choice: idx}, err

	case Bool:
		idx, err := e.UI.Choose(ctx, def.Name, def.Description, BoolOptions)
		return Input{Choice: idx}, err

	case Font:
		op, err := e.UI.Choose(ctx, def.Name, def.Description, []string{FontFieldsOp, FontCapsOp})
		if err != nil {
			return Input{}, err
		}
		if op == 1 {
			idx, err := e.UI.Choose(ctx, FontCapsOp, "", CapsOptions)
			return Input{Choice: idx}, err
		}
		fields, err := e.UI.EditFields(ctx, def.Name, def.Description, FontFields, v.Fields())
		if fields == nil && err == nil {
			err = ErrDismissed
		}
		return Input{Fields: fields}, err

	case Multival:
		fields, err := e.UI.EditFields(ctx, def.Name, def.Description, v.Keys(), v.Values())
		return Input{Fields: fields}, err

	case Selection:
		selected, err := e.toggle(ctx, def, v.Identifiers())
		return Input{Selected: selected}, err
	}
	return Input{}, fmt.Errorf("edit %s: unsupported type %s", entry.Key, entry.Value.Type())
}

// toggle lets the user flip options on and off until Done. Each toggle
// redraws the list.
func (e *Editor) toggle(ctx context.Context, def *Definition, current []string) ([]string, error) {
	selected := make(map[string]bool, len(current))
	for _, id := range current {
		selected[id] = true
	}

	for {
		options := make([]string, 0, len(def.Choices)+1)
		for _, o := range def.Choices {
			mark := "○"
			if selected[o.Identifier] {
				mark = "●"
			}
			options = append(options, mark+" "+o.Title)
		}
		options = append(options, MenuDone)

		idx, err := e.UI.Choose(ctx, def.Name, def.Description, options)
		if err != nil {
			return nil, err
		}
		if idx == len(def.Choices) {
			break
		}
		if idx < 0 || idx > len(def.Choices) {
			continue
		}
		id := def.Choices[idx].Identifier
		selected[id] = !selected[id]
	}

	var out []string
	for _, o := range def.Choices {
		if selected[o.Identifier] {
			out = append(out, o.Identifier)
		}
	}
	return out, nil
}

func entryLabel(entry *Entry) string {
	name := entry.Key
	if entry.Definition != nil {
		name = entry.Definition.Name
	}
	if display := entry.Value.Display(); display != "" {
		return name + ": " + display
	}
	return name
}
