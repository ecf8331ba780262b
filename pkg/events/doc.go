// Package events implements delegated input events for vui.
//
// Instead of attaching a listener to every element, a System registers at
// most one raw listener per event kind at the document root and keeps a table
// of element handlers. When a raw event arrives it walks the propagation path
// from the target outward, wrapping the event in a SyntheticEvent for every
// element that has a handler and running that handler inside a scheduler
// batch, so that several state updates issued by one handler collapse into a
// single re-render.
//
// Handlers are registered by the reconciler from on* props:
//
//	vdom.Button(vdom.OnClick(func(e *events.SyntheticEvent) {
//	    e.StopPropagation()
//	}), "Save")
package events
