// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/tflitec/cmd/tflitec-build/cli"
)

// styles holds the lipgloss styles for text reports.
type styles struct {
	heading lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	faint   lipgloss.Style
}

// newStyles binds styles to w. Without color every style renders plain
// text, so redirected output carries no escape sequences.
func newStyles(w io.Writer, color bool) styles {
	renderer := lipgloss.NewRenderer(w)
	if color {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return styles{
		heading: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		label:   renderer.NewStyle().Width(16).Foreground(lipgloss.Color("245")),
		value:   renderer.NewStyle(),
		faint:   renderer.NewStyle().Faint(true),
	}
}

// stdoutColor reports whether stdout should be colored.
func stdoutColor() bool {
	return cli.IsTerminal(os.Stdout) && os.Getenv("NO_COLOR") == ""
}

// writeSource writes Go source to w, highlighted when highlight is set.
// Highlighting failures fall back to the plain text.
func writeSource(w io.Writer, code string, highlight bool) error {
	if highlight {
		if err := quick.Highlight(w, code, "go", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(w, code)
	return err
}
