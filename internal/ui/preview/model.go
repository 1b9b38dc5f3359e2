// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package preview

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/zonedash/internal/render"
	"github.com/jeranaias/zonedash/internal/ui/styles"
	"github.com/jeranaias/zonedash/internal/widget"
)

// sizeOrder is the cycle used by the size key.
var sizeOrder = []string{"small", "medium", "large"}

// chromeLines is the header plus the status bar.
const chromeLines = 2

// =============================================================================
// MESSAGES
// =============================================================================

// LoadFunc builds a fresh widget. It is called on start, on reload, and
// after every watched change.
type LoadFunc func(ctx context.Context, dark bool) *widget.Widget

type loadedMsg struct {
	w  *widget.Widget
	at time.Time
}

type changedMsg struct {
	path string
}

// =============================================================================
// MODEL
// =============================================================================

// Options configures a preview.
type Options struct {
	Title    string
	Load     LoadFunc
	Size     string
	DarkMode bool
	// Changes is an optional feed of changed paths, usually Watcher.Changes.
	Changes <-chan string
	Theme   *styles.Theme
	// Renderer controls the widget color profile. Nil uses lipgloss's default.
	Renderer   *lipgloss.Renderer
	Hyperlinks bool
	Now        func() time.Time
}

// Model is the Bubble Tea model for the preview.
type Model struct {
	opts  Options
	keys  KeyMap
	theme *styles.Theme

	viewport viewport.Model
	ready    bool
	width    int
	height   int

	widget     *widget.Widget
	size       string
	dark       bool
	loads      int
	loadedAt   time.Time
	lastChange string
}

// New creates a preview model.
func New(opts Options) Model {
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	size := opts.Size
	if _, ok := render.Sizes[size]; !ok {
		size = widget.DefaultPreview
	}
	return Model{
		opts:  opts,
		keys:  DefaultKeyMap(),
		theme: opts.Theme,
		size:  size,
		dark:  opts.DarkMode,
	}
}

// Init loads the widget and starts listening for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m Model) load() tea.Cmd {
	load, dark, now := m.opts.Load, m.dark, m.opts.Now
	return func() tea.Msg {
		if load == nil {
			return loadedMsg{at: now()}
		}
		return loadedMsg{w: load(context.Background(), dark), at: now()}
	}
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.opts.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return changedMsg{path: path}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - chromeLines
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, m.load()
		case key.Matches(msg, m.keys.Size):
			m.size = nextSize(m.size)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Dark):
			m.dark = !m.dark
			return m, m.load()
		}

	case loadedMsg:
		m.widget = msg.w
		m.loadedAt = msg.at
		m.loads++
		m.refresh()
		return m, nil

	case changedMsg:
		m.lastChange = msg.path
		return m, tea.Batch(m.load(), m.waitForChange())
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func nextSize(size string) string {
	for i, s := range sizeOrder {
		if s == size {
			return sizeOrder[(i+1)%len(sizeOrder)]
		}
	}
	return sizeOrder[0]
}

// refresh re-renders the widget into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.content())
}

func (m *Model) content() string {
	if m.widget == nil {
		return m.theme.Muted.Render("Loading...")
	}

	var sb strings.Builder
	sb.WriteString(render.Widget(m.widget, render.Options{
		Size:       render.Sizes[m.size],
		Border:     true,
		Hyperlinks: m.opts.Hyperlinks,
		Renderer:   m.opts.Renderer,
	}))
	sb.WriteString("\n")

	for _, d := range m.widget.Tree.Diagnostics {
		sb.WriteString("\n")
		sb.WriteString(m.theme.DiagnosticLine.Render(fmt.Sprintf("line %d", d.Line)))
		sb.WriteString(" ")
		sb.WriteString(m.theme.DiagnosticText.Render(d.Err.Error()))
	}
	return sb.String()
}

// View renders the header, the widget, and the status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		m.viewport.View(),
		m.status(),
	)
}

func (m Model) header() string {
	title := m.opts.Title
	if title == "" && m.widget != nil {
		title = m.widget.Name
	}
	mode := "light"
	if m.dark {
		mode = "dark"
	}
	meta := fmt.Sprintf("%s · %s", m.size, mode)
	if m.widget != nil && m.widget.Tree.HasDiagnostics() {
		meta += fmt.Sprintf(" · %d problems", len(m.widget.Tree.Diagnostics))
	}
	return m.theme.Header.Width(m.width).Render(
		m.theme.HeaderTitle.Render(title) + "  " + m.theme.HeaderMeta.Render(meta))
}

func (m Model) status() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, m.theme.Shortcut(b.Help().Key, b.Help().Desc))
	}
	line := strings.Join(parts, "  ")
	if !m.loadedAt.IsZero() {
		updated := "rendered " + m.loadedAt.Format("15:04:05")
		if m.lastChange != "" {
			updated += " after " + filepath.Base(m.lastChange)
		}
		line += "  " + updated
	}
	return m.theme.StatusBar.Width(m.width).Render(line)
}

// Size returns the current preview size name.
func (m Model) Size() string { return m.size }

// DarkMode reports whether the widget is built in dark mode.
func (m Model) DarkMode() bool { return m.dark }

// Widget returns the last loaded widget.
func (m Model) Widget() *widget.Widget { return m.widget }
