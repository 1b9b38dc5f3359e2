// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package items

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jeranaias/zonedash/internal/layout"
)

// =============================================================================
// ITEM DEFINITION
// =============================================================================

// Kind says whether an item moves the cursor or produces content.
type Kind int

const (
	// KindStructural items change rows, columns, spacing or alignment.
	KindStructural Kind = iota
	// KindContent items get their own item container in the tree.
	KindContent
)

// Call carries the arguments of one item invocation.
type Call struct {
	Env     *Env
	Builder *layout.Builder
	// Container is the node the handler appends to: the item container
	// for content items, the builder's current container otherwise.
	Container *layout.Node
	Name      string
	Param     string
}

// Handler runs an item.
type Handler interface {
	Handle(ctx context.Context, call *Call) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, call *Call) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, call *Call) error {
	return f(ctx, call)
}

// Item is a named handler.
type Item struct {
	Name        string
	Description string
	Usage       string
	Kind        Kind
	Handler     Handler
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry resolves item names for one environment. Custom items shadow
// built-ins of the same name.
type Registry struct {
	env     *Env
	builtin map[string]*Item
	custom  map[string]*Item
}

// NewRegistry returns a registry with every built-in item.
func NewRegistry(env *Env) *Registry {
	if env == nil {
		env = &Env{}
	}
	r := &Registry{
		env:     env,
		builtin: make(map[string]*Item),
		custom:  make(map[string]*Item),
	}
	r.registerBuiltins()
	return r
}

// Env returns the environment handlers receive.
func (r *Registry) Env() *Env { return r.env }

// Register adds or replaces a built-in item.
func (r *Registry) Register(item *Item) {
	r.builtin[item.Name] = item
}

// RegisterCustom adds a caller-supplied content item.
func (r *Registry) RegisterCustom(name string, h Handler) {
	r.custom[name] = &Item{Name: name, Kind: KindContent, Handler: h}
}

// Get returns the item for name, custom first, or nil.
func (r *Registry) Get(name string) *Item {
	if item, ok := r.custom[name]; ok {
		return item
	}
	return r.builtin[name]
}

// Known reports whether name resolves to an item.
func (r *Registry) Known(name string) bool {
	return r.Get(name) != nil
}

// Builtins returns the built-in items sorted by name.
func (r *Registry) Builtins() []*Item {
	out := make([]*Item, 0, len(r.builtin))
	for _, item := range r.builtin {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every resolvable item name, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]bool, len(r.builtin)+len(r.custom))
	for name := range r.builtin {
		seen[name] = true
	}
	for name := range r.custom {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrHandlerPanic wraps a panic raised by an item handler.
var ErrHandlerPanic = errors.New("item handler panicked")

// Dispatch runs the item called name. Unknown names return
// layout.ErrUnknownItem and leave the tree untouched. A panicking handler
// is reported as ErrHandlerPanic.
func (r *Registry) Dispatch(ctx context.Context, b *layout.Builder, name, param string) (err error) {
	item := r.Get(name)
	if item == nil {
		return fmt.Errorf("%w: %s", layout.ErrUnknownItem, name)
	}

	call := &Call{Env: r.env, Builder: b, Name: name, Param: param}
	if item.Kind == KindContent {
		call.Container = b.AddItem(name, param)
	} else {
		call.Container = b.Container()
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("item %s: %w: %v", name, ErrHandlerPanic, p)
		}
	}()

	if err := item.Handler.Handle(ctx, call); err != nil {
		return fmt.Errorf("item %s: %w", name, err)
	}
	return nil
}

// CompileLayout compiles src with the built-in items plus custom.
func CompileLayout(ctx context.Context, src string, env *Env, custom map[string]Handler) *layout.Tree {
	return CompileInto(ctx, src, env, custom, nil)
}

// CompileInto is CompileLayout with a caller-provided root node.
func CompileInto(ctx context.Context, src string, env *Env, custom map[string]Handler, root *layout.Node) *layout.Tree {
	r := NewRegistry(env)
	for name, h := range custom {
		r.RegisterCustom(name, h)
	}
	return layout.Compile(ctx, src, r, layout.Options{
		Logger: r.env.Logger,
		Root:   root,
	})
}
