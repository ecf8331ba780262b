package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
)

// Category groups error codes by the subsystem that raises them.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryRender  Category = "render"
	CategoryDisplay Category = "display"
	CategoryConfig  Category = "config"
	CategoryStorage Category = "storage"
	CategoryCLI     Category = "cli"
)

// Location is a position in Go source, typically a component declaration.
type Location struct {
	File string
	Line int
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// VuiError is a registry error enriched with the component and source
// location it concerns.
type VuiError struct {
	Code     string
	Category Category
	Message  string
	Detail   string

	// Component is the name of the component the error concerns.
	Component string

	// Location points at the component declaration; Source holds the lines
	// around it.
	Location *Location
	Source   []string

	// Stack is the goroutine stack captured when a panic was recovered.
	Stack string

	Suggestion string
	DocURL     string

	Wrapped error
}

func (e *VuiError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Component != "" {
		msg += " (" + e.Component + ")"
	}
	return msg
}

func (e *VuiError) Unwrap() error { return e.Wrapped }

// WithComponent names the component the error concerns.
func (e *VuiError) WithComponent(name string) *VuiError {
	e.Component = name
	return e
}

// WithLocation points the error at file:line and loads the surrounding
// source when the file is readable.
func (e *VuiError) WithLocation(file string, line int) *VuiError {
	e.Location = &Location{File: file, Line: line}
	e.Source = sourceAround(file, line, 2)
	return e
}

// WithStack attaches a recovered panic stack.
func (e *VuiError) WithStack(stack string) *VuiError {
	e.Stack = stack
	return e
}

func (e *VuiError) WithSuggestion(s string) *VuiError {
	e.Suggestion = s
	return e
}

func (e *VuiError) WithDetail(d string) *VuiError {
	e.Detail = d
	return e
}

func (e *VuiError) Wrap(err error) *VuiError {
	e.Wrapped = err
	return e
}

// sourceAround returns up to radius lines on each side of line, plus the
// line itself. The first returned line is line-radius (or 1).
func sourceAround(file string, line, radius int) []string {
	f, err := os.Open(file)
	if err != nil {
		return nil
	}
	defer f.Close()

	first, last := max(line-radius, 1), line+radius
	var out []string
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan() && n <= last; n++ {
		if n >= first {
			out = append(out, sc.Text())
		}
	}
	return out
}

// New creates an error from a registered code. Unregistered codes yield an
// "Unknown error" message.
func New(code string) *VuiError {
	tmpl, ok := registry[code]
	if !ok {
		return &VuiError{Code: code, Message: "Unknown error"}
	}
	return &VuiError{
		Code:     code,
		Category: tmpl.Category,
		Message:  tmpl.Message,
		Detail:   tmpl.Detail,
		DocURL:   tmpl.DocURL,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *VuiError {
	return &VuiError{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError returns err as a VuiError, wrapping it under code unless it
// already is one.
func FromError(err error, code string) *VuiError {
	if err == nil {
		return nil
	}
	var ve *VuiError
	if stderrors.As(err, &ve) {
		return ve
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err's chain contains a VuiError with the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		var ve *VuiError
		if !stderrors.As(err, &ve) {
			return false
		}
		if ve.Code == code {
			return true
		}
		err = ve.Wrapped
	}
	return false
}
