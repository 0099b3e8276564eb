// Package report renders diagnostics for terminals and machines.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"viewlint/internal/diag"

	"github.com/fatih/color"
)

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color bool
	// Rel shortens paths for display; nil prints them as stored.
	Rel func(path string) string
	// Source returns file contents for the context line; nil disables context.
	Source func(path string) []byte
}

var (
	pathColor    = color.New(color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	caretColor   = color.New(color.FgGreen, color.Bold)
	fixColor     = color.New(color.FgBlue)
)

// Pretty writes one line per diagnostic, in bag order:
// <path>:<line>:<col>: <severity> <CODE>: <message> [fixable]
// followed by the source line with the type name underlined.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}

	for _, d := range bag.Items() {
		path := d.Location.File
		if opts.Rel != nil {
			path = opts.Rel(path)
		}
		line := fmt.Sprintf("%s: %s %s: %s",
			paint(pathColor, fmt.Sprintf("%s:%d:%d", path, d.Location.Line, d.Location.Column)),
			paint(severityColor(d.Severity), d.Severity.String()),
			d.Code,
			d.Message,
		)
		if d.Fixable {
			line += " " + paint(fixColor, "[fixable]")
		}
		fmt.Fprintln(w, line)

		if opts.Source == nil {
			continue
		}
		if text, ok := sourceLine(opts.Source(d.Location.File), d.Location.Start); ok {
			width := d.Location.End - d.Location.Start
			if width < 1 {
				width = 1
			}
			fmt.Fprintf(w, "    %s\n", text)
			fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", d.Location.Column-1), paint(caretColor, "^"+strings.Repeat("~", width-1)))
		}
	}
}

// Summary writes the closing count line.
func Summary(w io.Writer, bag *diag.Bag, files int) {
	fixable := 0
	for _, d := range bag.Items() {
		if d.Fixable {
			fixable++
		}
	}
	fmt.Fprintf(w, "%d problem(s) in %d file(s), %d fixable\n", bag.Len(), files, fixable)
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	}
	return infoColor
}

// sourceLine returns the line containing offset with tabs expanded to one
// space so the caret column lines up.
func sourceLine(src []byte, offset int) (string, bool) {
	if src == nil || offset < 0 || offset > len(src) {
		return "", false
	}
	start := bytes.LastIndexByte(src[:offset], '\n') + 1
	end := bytes.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += offset
	}
	text := strings.TrimRight(string(src[start:end]), "\r")
	return strings.ReplaceAll(text, "\t", " "), true
}
