package demo

import (
	"sort"

	"github.com/vango-dev/vui/pkg/vdom"
)

// Demo describes a runnable reference component tree.
type Demo struct {
	Name        string
	Description string

	// Root builds a fresh tree for mounting.
	Root func() *vdom.VNode

	// Action is the id of the element clicked by `vui render --clicks`.
	Action string
}

var registry = map[string]Demo{
	"counter": {
		Name:        "counter",
		Description: "Class component with batched setState",
		Root:        func() *vdom.VNode { return CounterType.H(vdom.Props{"start": 0}) },
		Action:      "increment",
	},
	"todo": {
		Name:        "todo",
		Description: "Keyed list driven by UseReducer, themed through a context provider",
		Root:        func() *vdom.VNode { return Todo(nil) },
		Action:      "add",
	},
	"boundary": {
		Name:        "boundary",
		Description: "Error boundary isolating a component that fails on demand",
		Root:        func() *vdom.VNode { return GuardType.H(nil, FuseType.H(nil)) },
		Action:      "trigger",
	},
}

// Get returns the demo registered under name.
func Get(name string) (Demo, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns the registered demo names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
