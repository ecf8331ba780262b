package vui

import (
	"errors"
	"fmt"
	"runtime/debug"

	verrors "github.com/vango-dev/vui/internal/errors"
)

// ErrHookMisuse is matched by every HookMisuseError via errors.Is.
var ErrHookMisuse = errors.New("vui: hook misuse")

// ErrMountTarget is returned by Mount when the selector matches no node.
var ErrMountTarget = errors.New("vui: mount target not found")

// HookMisuseError reports a hook called outside a render pass or a hook
// sequence that changed between renders of the same instance. It is raised
// as a panic and is never converted into boundary fallback output.
type HookMisuseError struct {
	Code      string // E001 or E002
	Hook      string
	Component string
	Detail    string
}

func (e *HookMisuseError) Error() string {
	msg := fmt.Sprintf("vui: %s: %s", e.Code, e.Hook)
	if e.Component != "" {
		msg += " in " + e.Component
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *HookMisuseError) Unwrap() error { return ErrHookMisuse }

// Structured converts the error into a registry error for display.
func (e *HookMisuseError) Structured() *verrors.VuiError {
	ve := verrors.New(e.Code).WithComponent(e.Component).WithDetail(e.Error())
	if e.Code == verrors.CodeHookOutsideRender {
		ve = ve.WithSuggestion("Call hooks only from the body of a function component, using the *Hooks it was given.")
	}
	return ve
}

// RenderError wraps a panic raised while rendering a component or running one
// of its lifecycle callbacks.
type RenderError struct {
	Component string
	Phase     string // "Render", "DidMount", "DidUpdate", ...
	Err       error
	Stack     string

	file string
	line int
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("vui: %s %s: %v", e.Component, e.Phase, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Structured converts the error into a registry error pointing at the
// component's declaration.
func (e *RenderError) Structured() *verrors.VuiError {
	code := verrors.CodeRenderFailed
	if e.Phase != phaseRender {
		code = verrors.CodeLifecycleFailed
	}
	ve := verrors.New(code).
		WithComponent(e.Component).
		WithDetail(e.Phase + " panicked").
		WithStack(e.Stack).
		Wrap(e.Err)
	if e.file != "" {
		ve = ve.WithLocation(e.file, e.line)
	}
	return ve
}

const (
	phaseRender      = "Render"
	phaseDidMount    = "DidMount"
	phaseWillUpdate  = "WillUpdate"
	phaseDidUpdate   = "DidUpdate"
	phaseWillUnmount = "WillUnmount"
)

// newRenderError converts a recovered panic value. Existing render and hook
// errors pass through unchanged so the innermost component keeps the blame.
func newRenderError(r any, name, phase, file string, line int) error {
	switch v := r.(type) {
	case *RenderError:
		return v
	case *HookMisuseError:
		return v
	}
	var cause error
	switch v := r.(type) {
	case error:
		cause = v
	default:
		cause = fmt.Errorf("%v", v)
	}
	return &RenderError{
		Component: name,
		Phase:     phase,
		Err:       cause,
		Stack:     string(debug.Stack()),
		file:      file,
		line:      line,
	}
}

// asError turns a recovered value into an error without adding component
// context.
func asError(r any) error {
	switch v := r.(type) {
	case error:
		return v
	default:
		return fmt.Errorf("vui: %v", v)
	}
}
