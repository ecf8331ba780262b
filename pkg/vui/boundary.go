package vui

import (
	"github.com/vango-dev/vui/pkg/vdom"
)

// ErrorBoundary is implemented by class components that isolate render
// errors in their subtree. While the boundary holds an error, Fallback is
// rendered instead of Render.
type ErrorBoundary interface {
	Component
	Fallback(err error) *vdom.VNode
}

// DidCatcher is notified once for every error a boundary catches.
type DidCatcher interface {
	DidCatch(err error, stack string)
}

// BoundaryState is the error state of a boundary, held in its component
// state.
type BoundaryState struct {
	HasError bool
	Err      error
}

const (
	stateHasError = "hasError"
	stateError    = "error"
)

// DeriveStateFromError returns the state a boundary adopts after catching err.
func DeriveStateFromError(err error) State {
	return State{stateHasError: true, stateError: err}
}

// BoundaryStateOf reads the boundary state out of s.
func BoundaryStateOf(s State) BoundaryState {
	err, _ := s.Get(stateError).(error)
	return BoundaryState{HasError: s.Bool(stateHasError), Err: err}
}

// ResetBoundary clears the error state of a boundary instance; its children
// are rendered again on the next flush.
func (i *Instance) ResetBoundary() {
	if !i.isBoundary() || !BoundaryStateOf(i.state).HasError {
		return
	}
	i.reset = true
	i.enqueue(State{stateHasError: false, stateError: nil}, true, nil)
}

// BoundaryState returns the component's boundary state.
func (b *Base) BoundaryState() BoundaryState {
	return BoundaryStateOf(b.State())
}

// ResetBoundary clears the component's error state.
func (b *Base) ResetBoundary() {
	if b.inst != nil {
		b.inst.ResetBoundary()
	}
}

// FallbackFunc renders the output shown in place of a failed subtree.
type FallbackFunc func(err error) *vdom.VNode

// BoundaryOption configures a boundary declared with Boundary.
type BoundaryOption func(*boundaryConfig)

type boundaryConfig struct {
	fallback FallbackFunc
	onCatch  func(err error, stack string)
}

// WithOnCatch registers a callback invoked once per caught error with the
// error and the stack captured where it was raised.
func WithOnCatch(fn func(err error, stack string)) BoundaryOption {
	return func(c *boundaryConfig) {
		c.onCatch = fn
	}
}

// DefaultFallback is rendered by boundaries declared without a fallback.
func DefaultFallback(error) *vdom.VNode {
	return vdom.Div(vdom.Class("vui-error"), "Something went wrong.")
}

// Boundary declares an error boundary component. Its instances render their
// children verbatim until a descendant fails, then render fallback(err).
func Boundary(name string, fallback FallbackFunc, opts ...BoundaryOption) *ClassType {
	cfg := &boundaryConfig{fallback: fallback}
	if cfg.fallback == nil {
		cfg.fallback = DefaultFallback
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return Class(name, func() Component {
		return &boundary{cfg: cfg}
	})
}

type boundary struct {
	Base
	cfg *boundaryConfig
}

func (b *boundary) Render() *vdom.VNode {
	return single(b.Children())
}

func (b *boundary) Fallback(err error) *vdom.VNode {
	return b.cfg.fallback(err)
}

func (b *boundary) DidCatch(err error, stack string) {
	if b.cfg.onCatch != nil {
		b.cfg.onCatch(err, stack)
	}
}
