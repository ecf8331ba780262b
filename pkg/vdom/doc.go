// Package vdom provides the tree node model for vui.
//
// A VNode is an immutable description of one UI node: an element with a tag,
// a text node, or a component invocation. Trees are produced by render
// functions and compared by the reconciler in pkg/vui to compute live
// display mutations.
//
// # Building Trees
//
// H is the generic builder:
//
//	H("ul", Props{"class": "list"},
//	    H("li", Props{"key": 1}, "one"),
//	    H("li", Props{"key": 2}, "two"),
//	)
//
// Element helpers accept attributes, handlers and children in any order:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    Button(OnClick(handler), "Save"),
//	)
//
// # Identity
//
// Two nodes are the same logical node when their kind is identical (same tag
// or same ComponentType) and their keys match. Unkeyed children are identified
// by position, so child order is meaningful.
package vdom
