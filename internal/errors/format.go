package errors

import (
	"fmt"
	"io"
	"strings"
)

type ansi string

const (
	ansiReset ansi = "\033[0m"
	ansiRed   ansi = "\033[31m"
	ansiCyan  ansi = "\033[36m"
	ansiGray  ansi = "\033[90m"
	ansiBold  ansi = "\033[1m"
)

var colors = true

// SetColors turns ANSI styling of Format output on or off.
func SetColors(on bool) { colors = on }

func paint(style ansi, text string) string {
	if !colors || text == "" {
		return text
	}
	return string(style) + text + string(ansiReset)
}

// stackLines caps the stack excerpt printed by Format.
const stackLines = 12

// Format renders the error for a terminal.
func (e *VuiError) Format() string {
	var b strings.Builder

	head := "ERROR"
	if e.Code != "" {
		head += " " + e.Code
	}
	fmt.Fprintf(&b, "\n%s %s\n", paint(ansiRed+ansiBold, head+":"), paint(ansiBold, e.Message))
	if e.Component != "" {
		fmt.Fprintf(&b, "  in %s\n", paint(ansiCyan, e.Component))
	}
	b.WriteString("\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n", paint(ansiCyan, e.Location.String()))
		first := max(e.Location.Line-2, 1)
		for i, src := range e.Source {
			n := first + i
			marker := "  "
			if n == e.Location.Line {
				marker = paint(ansiRed, "> ")
			}
			fmt.Fprintf(&b, "  %s%4d %s %s\n", marker, n, paint(ansiGray, "|"), src)
		}
		b.WriteString("\n")
	}

	for _, line := range wrap(e.Detail, 72) {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	if e.Detail != "" {
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s %v\n\n", paint(ansiGray, "cause:"), e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", paint(ansiCyan, "Hint:"), e.Suggestion)
	}
	if e.Stack != "" {
		b.WriteString(paint(ansiGray, "  stack:\n"))
		lines := strings.Split(strings.TrimRight(e.Stack, "\n"), "\n")
		if len(lines) > stackLines {
			lines = append(lines[:stackLines], fmt.Sprintf("... %d more lines", len(lines)-stackLines))
		}
		for _, line := range lines {
			fmt.Fprintf(&b, "    %s\n", paint(ansiGray, line))
		}
		b.WriteString("\n")
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s %s\n", paint(ansiGray, "Docs:"), e.DocURL)
	}
	return b.String()
}

// FormatCompact renders the error on one line, prefixed by its location.
func (e *VuiError) FormatCompact() string {
	if e.Location != nil {
		return e.Location.String() + ": " + e.Error()
	}
	return e.Error()
}

// wrap breaks text into lines of at most width columns at word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var cur []string
	n := 0
	for _, w := range strings.Fields(text) {
		if n > 0 && n+1+len(w) > width {
			lines = append(lines, strings.Join(cur, " "))
			cur, n = cur[:0], 0
		}
		if n > 0 {
			n++
		}
		cur = append(cur, w)
		n += len(w)
	}
	if len(cur) > 0 {
		lines = append(lines, strings.Join(cur, " "))
	}
	return lines
}

// Fprint writes err to w: the full format for VuiErrors, a single line
// otherwise.
func Fprint(w io.Writer, err error) {
	if ve := FromError(err, ""); ve != nil && ve.Code != "" {
		fmt.Fprint(w, ve.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %v\n\n", paint(ansiRed+ansiBold, "ERROR:"), err)
}
