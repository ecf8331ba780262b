package vui

import (
	"reflect"
	"runtime"

	"github.com/vango-dev/vui/pkg/vdom"
)

// State is the state of a class component. SetState merges into it shallowly.
type State map[string]any

// Get returns the value stored under key, or nil.
func (s State) Get(key string) any {
	if s == nil {
		return nil
	}
	return s[key]
}

// Int returns the int stored under key, or 0.
func (s State) Int(key string) int {
	v, _ := s.Get(key).(int)
	return v
}

// Str returns the string stored under key, or "".
func (s State) Str(key string) string {
	v, _ := s.Get(key).(string)
	return v
}

// Bool returns the bool stored under key, or false.
func (s State) Bool(key string) bool {
	v, _ := s.Get(key).(bool)
	return v
}

func (s State) merge(partial State) State {
	out := make(State, len(s)+len(partial))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Component is a stateful class component. Implementations embed Base.
type Component interface {
	Render() *vdom.VNode
}

// Optional lifecycle callbacks of class components.
type (
	// InitialStater supplies the state before the first render.
	InitialStater interface {
		InitialState() State
	}

	DidMounter interface {
		DidMount()
	}

	WillUpdater interface {
		WillUpdate(nextProps vdom.Props, nextState State)
	}

	DidUpdater interface {
		DidUpdate(prevProps vdom.Props, prevState State)
	}

	WillUnmounter interface {
		WillUnmount()
	}

	// ShouldUpdater can veto a re-render. State is committed either way.
	ShouldUpdater interface {
		ShouldUpdate(nextProps vdom.Props, nextState State) bool
	}
)

type binder interface {
	bind(*Instance)
}

// Base is embedded by class components. It connects the component to its
// instance once the component is mounted.
type Base struct {
	inst *Instance
}

func (b *Base) bind(i *Instance) { b.inst = i }

// Instance returns the lifecycle container of the component.
func (b *Base) Instance() *Instance { return b.inst }

// Props returns the current props.
func (b *Base) Props() vdom.Props {
	if b.inst == nil {
		return nil
	}
	return b.inst.props
}

// State returns the committed state.
func (b *Base) State() State {
	if b.inst == nil {
		return nil
	}
	return b.inst.state
}

// Children returns the children the component was invoked with.
func (b *Base) Children() []*vdom.VNode {
	return Children(b.Props())
}

// SetState merges partial into the state and schedules a re-render.
// Callbacks run after the update is committed.
func (b *Base) SetState(partial State, callbacks ...func()) {
	if b.inst != nil {
		b.inst.SetState(partial, callbacks...)
	}
}

// ForceUpdate re-renders the component even when ShouldUpdate would veto it.
func (b *Base) ForceUpdate(callbacks ...func()) {
	if b.inst != nil {
		b.inst.ForceUpdate(callbacks...)
	}
}

// RenderFunc renders a function component.
type RenderFunc func(h *Hooks, props vdom.Props) *vdom.VNode

// FuncType is the component type of a function component.
type FuncType struct {
	name   string
	render RenderFunc
	file   string
	line   int
}

// Func declares a function component. Declare component types once, at
// package level: node kinds compare by type identity.
func Func(name string, render RenderFunc) *FuncType {
	file, line := funcLocation(render)
	return &FuncType{name: name, render: render, file: file, line: line}
}

func (f *FuncType) ComponentName() string { return f.name }

// H builds a node invoking the component.
func (f *FuncType) H(props vdom.Props, children ...any) *vdom.VNode {
	return vdom.H(f, props, children...)
}

// ClassType is the component type of a class component.
type ClassType struct {
	name string
	ctor func() Component
	file string
	line int
}

// Class declares a class component; ctor returns a fresh component value
// for every instance.
func Class(name string, ctor func() Component) *ClassType {
	file, line := funcLocation(ctor)
	return &ClassType{name: name, ctor: ctor, file: file, line: line}
}

func (c *ClassType) ComponentName() string { return c.name }

// H builds a node invoking the component.
func (c *ClassType) H(props vdom.Props, children ...any) *vdom.VNode {
	return vdom.H(c, props, children...)
}

// Children returns the child nodes a component was invoked with.
func Children(props vdom.Props) []*vdom.VNode {
	children, _ := props.Get(childrenProp).([]*vdom.VNode)
	return children
}

const childrenProp = "children"

// componentProps builds the props an instance sees for node.
func componentProps(node *vdom.VNode) vdom.Props {
	props := node.Props.Clone()
	if len(node.Children) > 0 {
		props[childrenProp] = node.Children
	}
	return props
}

// single collapses children into the one node a component must render.
func single(children []*vdom.VNode) *vdom.VNode {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return vdom.H("vui-group", nil, children)
	}
}

func funcLocation(fn any) (string, int) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "", 0
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "", 0
	}
	return f.FileLine(f.Entry())
}
