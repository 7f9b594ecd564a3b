package tui

import (
	"io"

	"github.com/charmbracelet/glamour"
)

// markdownWrap is the word-wrap width used when w is not a terminal.
const markdownWrap = 100

// RenderMarkdown renders md for w. Terminals get the auto-detected style,
// anything else the plain "notty" style.
func RenderMarkdown(w io.Writer, md string) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if IsTerminal(w) && HasColorSupport(w) {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(TerminalWidth(w, markdownWrap)),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
