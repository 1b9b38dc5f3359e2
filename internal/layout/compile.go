// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// =============================================================================
// ERRORS AND DIAGNOSTICS
// =============================================================================

var (
	// ErrUnknownItem is returned by dispatchers for names with no handler.
	ErrUnknownItem = errors.New("unknown layout item")

	// ErrCanceled is recorded when the compile context ends early.
	ErrCanceled = errors.New("layout compile canceled")
)

// Diagnostic is a non-fatal problem found while compiling. Compilation
// always continues past a diagnostic.
type Diagnostic struct {
	Line int
	Item string
	Err  error
}

// Error implements error.
func (d Diagnostic) Error() string {
	if errors.Is(d.Err, ErrUnknownItem) {
		return fmt.Sprintf("line %d: the %s item in your layout is unavailable; check for misspellings or items that have been removed", d.Line, d.Item)
	}
	if d.Item != "" {
		return fmt.Sprintf("line %d: %s: %v", d.Line, d.Item, d.Err)
	}
	return fmt.Sprintf("line %d: %v", d.Line, d.Err)
}

// Unwrap returns the underlying error.
func (d Diagnostic) Unwrap() error { return d.Err }

// =============================================================================
// COMPILE
// =============================================================================

// Dispatcher resolves item calls. Implementations mutate the tree through
// the builder and report unknown names with ErrUnknownItem.
type Dispatcher interface {
	Catalog
	Dispatch(ctx context.Context, b *Builder, name, param string) error
}

// Options configures a compile pass.
type Options struct {
	// Logger receives one line per diagnostic. Nil uses log.Default().
	Logger *log.Logger
	// DefaultAlignment is the alignment each new column starts with.
	DefaultAlignment Alignment
	// Root, when set, receives the compiled content instead of a fresh
	// widget node. Callers use it to pre-set padding or size.
	Root *Node
}

// Compile detects the syntax of src, parses it and applies the resulting
// events in source order. Diagnostics are collected on the tree; a
// canceled context stops processing and records ErrCanceled.
func Compile(ctx context.Context, src string, d Dispatcher, opts Options) *Tree {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	root := opts.Root
	if root == nil {
		root = &Node{Kind: KindWidget, Axis: Vertical}
	}

	tree := &Tree{
		ID:     uuid.NewString(),
		Syntax: DetectSyntax(src),
		Root:   root,
	}

	var events []Event
	if tree.Syntax == SyntaxASCII {
		events = ParseASCII(src, d)
	} else {
		events = ParseKeyword(src)
	}

	b := NewBuilder(root)
	b.SetDefaultAlignment(opts.DefaultAlignment)

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			diag := Diagnostic{Line: ev.Line, Err: fmt.Errorf("%w: %v", ErrCanceled, err)}
			tree.Diagnostics = append(tree.Diagnostics, diag)
			logger.Printf("layout %s: %v", tree.ID, diag)
			break
		}
		if err := Apply(ctx, b, d, ev); err != nil {
			diag := Diagnostic{Line: ev.Line, Item: ev.Name, Err: err}
			tree.Diagnostics = append(tree.Diagnostics, diag)
			logger.Printf("layout %s: %v", tree.ID, diag)
		}
	}
	return tree
}

// Apply applies a single event to the builder.
func Apply(ctx context.Context, b *Builder, d Dispatcher, ev Event) error {
	switch ev.Kind {
	case EventOpenRow:
		b.OpenRow(ev.Size)
		return nil
	case EventOpenColumn:
		b.OpenColumn(ev.Size)
		return nil
	default:
		if d == nil {
			return fmt.Errorf("%w: %s", ErrUnknownItem, ev.Name)
		}
		return d.Dispatch(ctx, b, ev.Name, ev.Param)
	}
}
