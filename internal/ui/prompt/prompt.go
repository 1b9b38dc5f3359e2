// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/zonedash/internal/settings"
)

// LineReader reads edited lines. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	PromptWithSuggestion(prompt, text string, pos int) (string, error)
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"})
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"})
	indexStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"})
)

var _ settings.InteractiveUI = (*UI)(nil)

// UI prompts on a terminal.
type UI struct {
	line  LineReader
	out   io.Writer
	close func() error
}

// New returns a UI reading from the terminal through liner.
func New(out io.Writer) *UI {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &UI{line: state, out: out, close: state.Close}
}

// NewWithReader returns a UI over an existing line reader.
func NewWithReader(r LineReader, out io.Writer) *UI {
	return &UI{line: r, out: out}
}

// Close restores the terminal.
func (u *UI) Close() error {
	if u.close == nil {
		return nil
	}
	return u.close()
}

func (u *UI) header(title, message string) {
	fmt.Fprintln(u.out)
	if title != "" {
		fmt.Fprintln(u.out, titleStyle.Render(title))
	}
	if message != "" {
		fmt.Fprintln(u.out, messageStyle.Render(message))
	}
}

// dismissed maps line editor exits to settings.ErrDismissed.
func dismissed(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return settings.ErrDismissed
	}
	return err
}

// Choose prints options as a numbered list and reads a selection.
func (u *UI) Choose(ctx context.Context, title, message string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("%w: no options", settings.ErrChoice)
	}
	u.header(title, message)
	for i, opt := range options {
		fmt.Fprintf(u.out, "  %s %s\n", indexStyle.Render(fmt.Sprintf("%2d)", i+1)), opt)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		input, err := u.line.Prompt(fmt.Sprintf("Select [1-%d]: ", len(options)))
		if err != nil {
			return 0, dismissed(err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return 0, settings.ErrDismissed
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintln(u.out, errorStyle.Render(fmt.Sprintf("Enter a number from 1 to %d.", len(options))))
			continue
		}
		return n - 1, nil
	}
}

// EditFields reads each labeled field with its value prefilled.
func (u *UI) EditFields(ctx context.Context, title, message string, labels, values []string) ([]string, error) {
	u.header(title, message)
	out := make([]string, len(values))
	for i := range values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label := fmt.Sprintf("Value %d", i+1)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		input, err := u.line.PromptWithSuggestion(label+": ", values[i], -1)
		if err != nil {
			return nil, dismissed(err)
		}
		out[i] = input
	}
	return out, nil
}
